package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscms/internal/database/testdb"
	"campuscms/internal/models"
)

func TestListPublic(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t))

	public := models.Document{Title: "Kalender", Slug: "kalender", FilePath: "/uploads/k.pdf", IsPublic: true}
	private := models.Document{Title: "Notulen", Slug: "notulen", FilePath: "/uploads/n.pdf", IsPublic: false}
	require.NoError(t, repo.Create(ctx, &public))
	require.NoError(t, repo.Create(ctx, &private))

	docs, err := repo.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "kalender", docs[0].Slug)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	category := "Akademik"
	private.Category = &category
	private.IsPublic = true
	require.NoError(t, repo.Update(ctx, &private))

	got, err := repo.FindByID(ctx, private.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Akademik", *got.Category)
	assert.True(t, got.IsPublic)
}
