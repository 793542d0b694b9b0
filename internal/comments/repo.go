package comments

import (
	"context"
	"errors"
	"time"

	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ commentsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, comment *Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO comments (poem_id, name, comment, created_at, approved) VALUES ($1, $2, $3, $4, $5) RETURNING id;`,
		comment.PoemID, comment.Name, comment.Comment, comment.CreatedAt, comment.Approved,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	if rows.Next() {
		var id int
		if err := rows.Scan(&id); err == nil {
			comment.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert comment")
}

func (r *Repo) All(ctx context.Context) ([]*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, poem_id, name, comment, created_at, approved FROM comments ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2comments(rows)
}

// ApprovedForPoem is the public projection: approved comments only
func (r *Repo) ApprovedForPoem(ctx context.Context, poemID int) ([]*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.ApprovedForPoem")
	span.SetAttributes(attribute.Int("poemId", poemID))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, poem_id, name, comment, created_at, approved FROM comments
			WHERE poem_id = $1 AND approved = TRUE
			ORDER BY id DESC;
		`,
		poemID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2comments(rows)
}

// SetApproved flips the approval flag and returns the updated comment;
// setting a value the comment already has is a regular success
func (r *Repo) SetApproved(ctx context.Context, id int, approved bool) (*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.SetApproved")
	span.SetAttributes(attribute.Int("id", id))
	span.SetAttributes(attribute.Bool("approved", approved))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`
			UPDATE comments SET approved = $1
			WHERE id = $2
			RETURNING id, poem_id, name, comment, created_at, approved;
		`,
		approved, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrCommentNotFound
	}

	return r.scanComment(rows)
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *Repo) rows2comments(rows pgx.Rows) ([]*Comment, error) {
	var allComments []*Comment
	for rows.Next() {
		comment, err := r.scanComment(rows)
		if err != nil {
			return nil, err
		}
		allComments = append(allComments, comment)
	}
	return allComments, nil
}

func (r *Repo) scanComment(rows pgx.Rows) (*Comment, error) {
	var id, poemID int
	var name, commentText string
	var createdAt time.Time
	var approved bool
	if err := rows.Scan(&id, &poemID, &name, &commentText, &createdAt, &approved); err != nil {
		return nil, err
	}
	return &Comment{
		ID:        id,
		PoemID:    poemID,
		Name:      name,
		Comment:   commentText,
		CreatedAt: createdAt,
		Approved:  approved,
	}, nil
}
