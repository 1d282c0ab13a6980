package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-br/chamado-service/internal/domain"
)

// TicketFilter captures listing parameters. Status, priority, creator and
// assignee match exactly; category is a substring match; the created range is
// inclusive on both ends.
type TicketFilter struct {
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *string
	CreatorID   *string
	AssigneeID  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortField   string
	SortDesc    bool
	Limit       int
	Offset      int
}

// sortColumns whitelists API sort fields onto columns.
var sortColumns = map[string]string{
	"criadoEm":     "c.criado_em",
	"atualizadoEm": "c.atualizado_em",
	"titulo":       "c.titulo",
	"prioridade":   "c.prioridade",
	"status":       "c.status",
	"categoria":    "c.categoria",
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Count(ctx context.Context, filter TicketFilter) (int64, error)
	WithTx(tx pgx.Tx) TicketRepository
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) WithTx(tx pgx.Tx) TicketRepository {
	return &ticketRepository{db: tx}
}

const ticketSelect = `
    SELECT c.id, c.titulo, c.descricao, c.prioridade, c.status, c.categoria,
           c.criador_id, c.atribuido_id, c.resolvido_em, c.criado_em, c.atualizado_em,
           cr.nome, cr.email, cr.departamento,
           at.id, at.nome, at.email, at.departamento
    FROM chamados c
    JOIN usuarios cr ON cr.id = c.criador_id
    LEFT JOIN usuarios at ON at.id = c.atribuido_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO chamados (titulo, descricao, prioridade, status, categoria, criador_id, atribuido_id, resolvido_em)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, status, criado_em, atualizado_em`
	return r.db.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.Category,
		ticket.CreatorID,
		ticket.AssigneeID,
		ticket.ResolvedAt,
	).Scan(&ticket.ID, &ticket.Status, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE chamados SET titulo=$1, descricao=$2, prioridade=$3, status=$4, categoria=$5,
            atribuido_id=$6, resolvido_em=$7, atualizado_em=NOW()
        WHERE id=$8`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.Category,
		ticket.AssigneeID,
		ticket.ResolvedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes the ticket; comments and audit entries go with it via the
// schema's ON DELETE CASCADE.
func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM chamados WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRow(ctx, ticketSelect+` WHERE c.id=$1`, id)
	return scanTicket(row)
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	where, args := buildTicketWhere(filter)

	sortCol, ok := sortColumns[filter.SortField]
	if !ok {
		sortCol = "c.criado_em"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d",
		ticketSelect, where, sortCol, direction, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketFilter) (int64, error) {
	where, args := buildTicketWhere(filter)
	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM chamados c WHERE "+where, args...).Scan(&total)
	return total, err
}

func buildTicketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("c.prioridade=$%d", len(args)))
	}
	if filter.Category != nil && strings.TrimSpace(*filter.Category) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Category))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(c.categoria) LIKE $%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("c.criador_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("c.atribuido_id=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("c.criado_em >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("c.criado_em <= $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		creator      domain.UserSummary
		assigneeID   *string
		assigneeName *string
		assigneeMail *string
		assigneeDept *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.Category,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.ResolvedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&creator.Name,
		&creator.Email,
		&creator.Department,
		&assigneeID,
		&assigneeName,
		&assigneeMail,
		&assigneeDept,
	); err != nil {
		return nil, err
	}
	creator.ID = ticket.CreatorID
	ticket.Creator = &creator
	if assigneeID != nil {
		ticket.Assignee = &domain.UserSummary{
			ID:    *assigneeID,
			Name:  deref(assigneeName),
			Email: deref(assigneeMail),
		}
		if assigneeDept != nil {
			ticket.Assignee.Department = *assigneeDept
		}
	}
	return &ticket, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
