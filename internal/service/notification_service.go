package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdesk-br/chamado-service/internal/events"
)

// NotificationService logs a structured line for each domain event. It is a
// dispatcher subscriber like the realtime bridge, kept separate so the fan-out
// has an audit-friendly trace even with no WebSocket clients connected.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all domain events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle("TicketCreated"))
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handle("TicketUpdated"))
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle("TicketStatusChanged"))
	n.dispatcher.Subscribe(events.EventTicketComment, n.handle("TicketComment"))
	n.dispatcher.Subscribe(events.EventTicketCommentDeleted, n.handle("TicketCommentDeleted"))
}

func (n *NotificationService) handle(name string) events.EventHandler {
	return func(_ context.Context, event events.Event) {
		n.logger.Info(name,
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Any("payload", event.Payload),
		)
	}
}
