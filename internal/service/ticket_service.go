package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-br/chamado-service/internal/auth"
	"github.com/helpdesk-br/chamado-service/internal/domain"
	"github.com/helpdesk-br/chamado-service/internal/events"
	"github.com/helpdesk-br/chamado-service/internal/repository"
	apperrors "github.com/helpdesk-br/chamado-service/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TicketService coordinates the ticket lifecycle: permission checks, status
// side effects, the audit trail and event emission. The primary mutation and
// its audit entry always share one transaction.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	audit      repository.AuditRepository
	users      repository.UserRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	AuditRepo   repository.AuditRepository
	UserRepo    repository.UserRepository
	Tx          repository.TxManager
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		audit:      deps.AuditRepo,
		users:      deps.UserRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes the creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    string
}

// TicketUpdateInput is a partial patch; nil fields are left untouched.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	Status      *domain.TicketStatus
	Category    *string
	AssigneeID  *string
}

// TicketListInput bundles filters and pagination for listing.
type TicketListInput struct {
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *string
	CreatorID   *string
	AssigneeID  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
	SortField   string
	SortAsc     bool
}

// TicketPage is a paginated listing result.
type TicketPage struct {
	Items      []domain.Ticket
	Total      int64
	Page       int
	TotalPages int
}

// Create persists a new ticket with status ABERTO and records the CRIADO
// audit entry in the same transaction.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		Category:    strings.TrimSpace(input.Category),
		CreatorID:   actor.ID,
	}

	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Create(ctx, ticket); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Create(ctx, &domain.AuditEntry{
			Action:   domain.AuditCreated,
			Details:  fmt.Sprintf("Chamado criado com prioridade %s", ticket.Priority),
			TicketID: ticket.ID,
			UserID:   actor.ID,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	creator := actor.Summary()
	ticket.Creator = &creator

	s.publish(ctx, events.EventTicketCreated, ticket)
	return ticket, nil
}

// Update applies a partial patch. Only the creator or an admin-like actor may
// update; setting status to RESOLVIDO stamps resolvidoEm (it is never cleared
// by later transitions).
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, patch TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	caps := auth.CapabilitiesFor(actor.Role)
	if ticket.CreatorID != actor.ID && !caps.ManageAnyTicket {
		return nil, apperrors.NewForbidden("sem permissão para atualizar este chamado")
	}

	oldStatus := ticket.Status
	var changes []string

	if patch.Status != nil && *patch.Status != oldStatus {
		changes = append(changes, fmt.Sprintf("Status alterado para %s", *patch.Status))
	}
	if patch.Title != nil {
		changes = append(changes, "Título atualizado")
		ticket.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		changes = append(changes, "Descrição atualizada")
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		changes = append(changes, fmt.Sprintf("Prioridade alterada para %s", *patch.Priority))
		ticket.Priority = *patch.Priority
	}
	if patch.AssigneeID != nil {
		changes = append(changes, "Chamado reatribuído")
		ticket.AssigneeID = patch.AssigneeID
	}
	if patch.Category != nil {
		ticket.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
		if *patch.Status == domain.TicketStatusResolved {
			now := time.Now()
			ticket.ResolvedAt = &now
		}
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Update(ctx, ticket); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return s.audit.WithTx(tx).Create(ctx, &domain.AuditEntry{
			Action:   domain.AuditUpdated,
			Details:  strings.Join(changes, ", "),
			TicketID: ticket.ID,
			UserID:   actor.ID,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketUpdated, updated)
	if patch.Status != nil && *patch.Status != oldStatus {
		s.publish(ctx, events.EventTicketStatusChanged, events.StatusChangedPayload{
			TicketID:  ticket.ID,
			NewStatus: *patch.Status,
			ChangedBy: actor.Name,
		})
	}
	return updated, nil
}

// Delete removes a ticket. Admin-like actors only; comments and audit entries
// cascade at the storage layer.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, ticketID string) error {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return err
	}
	if !auth.CapabilitiesFor(actor.Role).DeleteTickets {
		return apperrors.NewForbidden("sem permissão para deletar chamados")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Assign sets or clears the assignee and recomputes status: assigned tickets
// go to EM_ANDAMENTO, unassigned back to ABERTO, regardless of prior status.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID string, assigneeID *string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var assigneeName string
	if assigneeID != nil {
		target, err := s.users.GetByID(ctx, *assigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("usuário para atribuição", nil)
			}
			return nil, apperrors.MapError(err)
		}
		if !target.Active {
			return nil, apperrors.NewNotFound("usuário para atribuição", map[string]any{"motivo": "inativo"})
		}
		assigneeName = target.Name
	}

	ticket.AssigneeID = assigneeID
	if assigneeID != nil {
		ticket.Status = domain.TicketStatusInProgress
	} else {
		ticket.Status = domain.TicketStatusOpen
	}

	action := domain.AuditUnassigned
	details := "Chamado desatribuído"
	if assigneeID != nil {
		action = domain.AuditAssigned
		details = fmt.Sprintf("Chamado atribuído para %s", assigneeName)
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.WithTx(tx).Update(ctx, ticket); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Create(ctx, &domain.AuditEntry{
			Action:   action,
			Details:  details,
			TicketID: ticket.ID,
			UserID:   actor.ID,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	updated, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTicketUpdated, updated)
	return updated, nil
}

// List returns a page of tickets. The page fetch and the total count have no
// ordering dependency and run concurrently.
func (s *TicketService) List(ctx context.Context, input TicketListInput) (*TicketPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.TicketFilter{
		Status:      input.Status,
		Priority:    input.Priority,
		Category:    input.Category,
		CreatorID:   input.CreatorID,
		AssigneeID:  input.AssigneeID,
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
		SortField:   input.SortField,
		SortDesc:    !input.SortAsc,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}

	var total int64
	countErr := make(chan error, 1)
	go func() {
		t, err := s.tickets.Count(ctx, filter)
		total = t
		countErr <- err
	}()

	items, listErr := s.tickets.List(ctx, filter)
	if err := <-countErr; err != nil {
		return nil, apperrors.MapError(err)
	}
	if listErr != nil {
		return nil, apperrors.MapError(listErr)
	}
	if items == nil {
		items = []domain.Ticket{}
	}

	return &TicketPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// GetByID returns the ticket with comments ascending and audit entries
// descending by creation time, author summaries included.
func (s *TicketService) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, []domain.Comment, []domain.AuditEntry, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	history, err := s.audit.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, history, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("chamado", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
