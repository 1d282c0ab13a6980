package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-br/chamado-service/internal/domain"
)

// AuditRepository stores the append-only ticket action trail. Entries are
// never updated or deleted; the parent ticket's cascade removes them.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditEntry, error)
	WithTx(tx pgx.Tx) AuditRepository
}

type auditRepository struct {
	db Querier
}

// NewAuditRepository builds the repository.
func NewAuditRepository(db Querier) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) WithTx(tx pgx.Tx) AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO historico_acoes (acao, detalhes, chamado_id, usuario_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, criado_em`
	return r.db.QueryRow(ctx, query,
		entry.Action,
		entry.Details,
		entry.TicketID,
		entry.UserID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditEntry, error) {
	const query = `
        SELECT h.id, h.acao, h.detalhes, h.chamado_id, h.usuario_id, h.criado_em,
               u.nome, u.email
        FROM historico_acoes h
        JOIN usuarios u ON u.id = h.usuario_id
        WHERE h.chamado_id=$1
        ORDER BY h.criado_em DESC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var (
			entry domain.AuditEntry
			user  domain.UserSummary
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.Details,
			&entry.TicketID,
			&entry.UserID,
			&entry.CreatedAt,
			&user.Name,
			&user.Email,
		); err != nil {
			return nil, err
		}
		user.ID = entry.UserID
		entry.User = &user
		result = append(result, entry)
	}
	return result, rows.Err()
}
