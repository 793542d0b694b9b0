//go:build integration_test || all_tests

package comments

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/senolsoyleyici/poemsite/internal/db"
	"github.com/senolsoyleyici/poemsite/internal/poems"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepoSetup(t *testing.T) (*Repo, *pgxpool.Pool, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postgres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "poemsite",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), dbPool, func() {
		dbPool.Close()
	}
}

func addTestPoem(t *testing.T, dbPool *pgxpool.Pool) *poems.Poem {
	t.Helper()

	poem := &poems.Poem{
		Title:   gofakeit.BookTitle(),
		Content: gofakeit.Sentence(20),
	}
	require.NoError(t, poems.NewRepo(dbPool).Add(context.Background(), poem))
	return poem
}

func TestRepo_Add_SetApproved_Delete(t *testing.T) {
	ctx := context.Background()
	repo, dbPool, shutdown := testRepoSetup(t)
	defer shutdown()

	poem := addTestPoem(t, dbPool)
	defer func() {
		require.NoError(t, poems.NewRepo(dbPool).Delete(ctx, poem.ID))
	}()

	comment := &Comment{
		PoemID:  poem.ID,
		Name:    gofakeit.Name(),
		Comment: gofakeit.Sentence(10),
	}
	require.NoError(t, repo.Add(ctx, comment))
	require.NotZero(t, comment.ID)
	assert.False(t, comment.Approved)

	approvedComments, err := repo.ApprovedForPoem(ctx, poem.ID)
	require.NoError(t, err)
	assert.Empty(t, approvedComments)

	updated, err := repo.SetApproved(ctx, comment.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Approved)
	assert.Equal(t, comment.Name, updated.Name)

	approvedComments, err = repo.ApprovedForPoem(ctx, poem.ID)
	require.NoError(t, err)
	require.Len(t, approvedComments, 1)
	assert.Equal(t, comment.ID, approvedComments[0].ID)

	// toggle back off, the comment survives but goes hidden
	updated, err = repo.SetApproved(ctx, comment.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Approved)

	approvedComments, err = repo.ApprovedForPoem(ctx, poem.ID)
	require.NoError(t, err)
	assert.Empty(t, approvedComments)

	_, err = repo.SetApproved(ctx, 25342523, true)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	require.NoError(t, repo.Delete(ctx, comment.ID))
	assert.ErrorIs(t, repo.Delete(ctx, comment.ID), ErrCommentNotFound)
}

func TestRepo_poemDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repo, dbPool, shutdown := testRepoSetup(t)
	defer shutdown()

	poem := addTestPoem(t, dbPool)

	comment := &Comment{
		PoemID:  poem.ID,
		Name:    gofakeit.Name(),
		Comment: gofakeit.Sentence(10),
	}
	require.NoError(t, repo.Add(ctx, comment))

	require.NoError(t, poems.NewRepo(dbPool).Delete(ctx, poem.ID))

	assert.ErrorIs(t, repo.Delete(ctx, comment.ID), ErrCommentNotFound)
}
