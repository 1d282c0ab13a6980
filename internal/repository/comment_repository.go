package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-br/chamado-service/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	WithTx(tx pgx.Tx) CommentRepository
}

type commentRepository struct {
	db Querier
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(db Querier) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx pgx.Tx) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comentarios (conteudo, autor_id, chamado_id)
        VALUES ($1,$2,$3)
        RETURNING id, criado_em, atualizado_em`
	return r.db.QueryRow(ctx, query,
		comment.Content,
		comment.AuthorID,
		comment.TicketID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comentarios SET conteudo=$1, atualizado_em=NOW()
        WHERE id=$2
        RETURNING atualizado_em`
	return r.db.QueryRow(ctx, query, comment.Content, comment.ID).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM comentarios WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const commentSelect = `
    SELECT co.id, co.conteudo, co.autor_id, co.chamado_id, co.criado_em, co.atualizado_em,
           u.nome, u.email
    FROM comentarios co
    JOIN usuarios u ON u.id = co.autor_id`

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE co.id=$1`, id))
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx, commentSelect+` WHERE co.chamado_id=$1 ORDER BY co.criado_em ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var (
		comment domain.Comment
		author  domain.UserSummary
	)
	if err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.AuthorID,
		&comment.TicketID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&author.Name,
		&author.Email,
	); err != nil {
		return nil, err
	}
	author.ID = comment.AuthorID
	comment.Author = &author
	return &comment, nil
}
