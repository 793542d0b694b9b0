package poems

import (
	"context"
	"errors"
	"time"

	"github.com/senolsoyleyici/poemsite/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ poemsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, poem *Poem) error {
	if poem.Title == "" || poem.Content == "" {
		return ErrPoemTitleOrContentEmpty
	}

	if poem.CreatedAt.IsZero() {
		poem.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO poems (title, content, created_at) VALUES ($1, $2, $3) RETURNING id;`,
		poem.Title, poem.Content, poem.CreatedAt,
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
			poem.ID = id
			return nil
		}
	}

	return errors.New("unexpected error, failed to insert poem")
}

func (r *Repo) Get(ctx context.Context, id int) (*Poem, error) {
	log.Tracef("getting poem %d", id)

	ctx, span := tracing.GlobalTracer.Start(ctx, "poemsRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, content, created_at FROM poems WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrPoemNotFound
	}

	var poemID int
	var title, content string
	var createdAt time.Time
	if err := rows.Scan(&poemID, &title, &content, &createdAt); err != nil {
		return nil, err
	}

	return &Poem{
		ID:        poemID,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
	}, nil
}

func (r *Repo) Exists(ctx context.Context, id int) (bool, error) {
	rows, err := r.db.Query(ctx, `SELECT EXISTS(SELECT 1 FROM poems WHERE id = $1);`, id)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, err
	}

	if rows.Next() {
		var exists bool
		if err := rows.Scan(&exists); err == nil {
			return exists, nil
		}
	}

	return false, errors.New("unexpected error, failed to check poem existence")
}

// Delete removes the poem; its comments go with it via the FK cascade
func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM poems WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPoemNotFound
	}
	return nil
}

func (r *Repo) All(ctx context.Context) ([]*Poem, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "poemsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, content, created_at FROM poems ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2poems(rows)
}

func (r *Repo) rows2poems(rows pgx.Rows) ([]*Poem, error) {
	var allPoems []*Poem
	for rows.Next() {
		var id int
		var title, content string
		var createdAt time.Time
		if err := rows.Scan(&id, &title, &content, &createdAt); err != nil {
			return nil, err
		}
		allPoems = append(allPoems, &Poem{
			ID:        id,
			Title:     title,
			Content:   content,
			CreatedAt: createdAt,
		})
	}
	return allPoems, nil
}
