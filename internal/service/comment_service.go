package service

import (
	"context"
	"errors"
	"net/http"
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

// CommentService manages ticket comments: the 30-minute edit window, the
// moderation rules and the audit trail.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	audit      repository.AuditRepository
	tx         repository.TxManager
	dispatcher events.Dispatcher
	now        func() time.Time
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	AuditRepo   repository.AuditRepository
	Tx          repository.TxManager
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		tickets:    deps.TicketRepo,
		audit:      deps.AuditRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Create adds a comment to an existing ticket.
func (s *CommentService) Create(ctx context.Context, actor *domain.User, ticketID, content string) (*domain.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("chamado", nil)
		}
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		Content:  content,
		AuthorID: actor.ID,
		TicketID: ticketID,
	}

	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.comments.WithTx(tx).Create(ctx, comment); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Create(ctx, &domain.AuditEntry{
			Action:   domain.AuditCommentAdded,
			Details:  "Novo comentário adicionado",
			TicketID: ticketID,
			UserID:   actor.ID,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	author := actor.Summary()
	comment.Author = &author

	s.publish(ctx, events.EventTicketComment, events.CommentPayload{
		Comment:  *comment,
		TicketID: ticketID,
	})
	return comment, nil
}

// Update edits a comment's content. Only the author or an admin-like actor
// may edit; non-admin authors lose the ability 30 minutes after creation.
func (s *CommentService) Update(ctx context.Context, actor *domain.User, commentID, content string) (*domain.Comment, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	isModerator := auth.CapabilitiesFor(actor.Role).ModerateComments
	if comment.AuthorID != actor.ID && !isModerator {
		return nil, apperrors.NewForbidden("sem permissão para editar este comentário")
	}
	if s.now().Sub(comment.CreatedAt) > domain.CommentEditWindow && !isModerator {
		return nil, apperrors.NewDomainError("COMMENT_TOO_OLD",
			"comentário muito antigo para edição", http.StatusBadRequest, nil)
	}

	comment.Content = content
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.comments.WithTx(tx).Update(ctx, comment); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Create(ctx, &domain.AuditEntry{
			Action:   domain.AuditCommentEdited,
			Details:  "Comentário editado",
			TicketID: comment.TicketID,
			UserID:   actor.ID,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// Delete removes a comment. Author or admin-like only.
func (s *CommentService) Delete(ctx context.Context, actor *domain.User, commentID string) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actor.ID && !auth.CapabilitiesFor(actor.Role).ModerateComments {
		return apperrors.NewForbidden("sem permissão para deletar este comentário")
	}

	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.comments.WithTx(tx).Delete(ctx, commentID); err != nil {
			return err
		}
		return s.audit.WithTx(tx).Create(ctx, &domain.AuditEntry{
			Action:   domain.AuditCommentDeleted,
			Details:  "Comentário deletado",
			TicketID: comment.TicketID,
			UserID:   actor.ID,
		})
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCommentDeleted, events.CommentDeletedPayload{
		CommentID: commentID,
		TicketID:  comment.TicketID,
	})
	return nil
}

// ListByTicket returns a ticket's comments ascending by creation time.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("chamado", nil)
		}
		return nil, apperrors.MapError(err)
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

func (s *CommentService) getComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comentário", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

func (s *CommentService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func validateContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return apperrors.NewValidationError("conteúdo do comentário é obrigatório", nil)
	}
	if len([]rune(content)) > domain.CommentMaxLength {
		return apperrors.NewValidationError("conteúdo deve ter no máximo 2000 caracteres", nil)
	}
	return nil
}
