package program

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscms/internal/database/testdb"
	"campuscms/internal/models"
)

func TestListByName(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t))

	for _, p := range []models.ProgramStudy{
		{Name: "Kedokteran", Slug: "kedokteran", Degree: "S1"},
		{Name: "Farmasi", Slug: "farmasi", Degree: "S1", Description: "Ilmu obat"},
		{Name: "Keperawatan", Slug: "keperawatan", Degree: "D3"},
	} {
		require.NoError(t, repo.Create(ctx, &p))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, p := range all {
		got = append(got, p.Name)
	}
	assert.Equal(t, []string{"Farmasi", "Kedokteran", "Keperawatan"}, got)

	hits, err := repo.Search(ctx, "obat")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "farmasi", hits[0].Slug)

	_, err = repo.FindBySlug(ctx, "hukum")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
