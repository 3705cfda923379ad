package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository() *ProductRepository {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProductRepository(noop.NewTracerProvider().Tracer("test"), logger)
}

func TestProductRepository_CRUD(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	first := &domain.Product{ID: 1700000000001, Title: "Handmade Mug", Price: 12, Category: "home"}
	second := &domain.Product{ID: 1700000000002, Title: "Tote Bag", Price: 8, Category: "bags"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	err := repo.Create(ctx, first)
	assert.ErrorContains(t, err, "already exists")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Handmade Mug", all[0].Title)
	assert.Equal(t, "Tote Bag", all[1].Title)

	updated := *first
	updated.Price = 15
	require.NoError(t, repo.Update(ctx, &updated))

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Price)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, first.ID), domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &updated), domain.ErrProductNotFound)
}

func TestProductRepository_ReturnsCopies(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	p := &domain.Product{ID: 1, Title: "Original", Category: "misc"}
	require.NoError(t, repo.Create(ctx, p))
	p.Title = "Mutated by caller"

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	got.Title = "Mutated again"

	again, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}
