package slider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscms/internal/database/testdb"
	"campuscms/internal/models"
)

func TestListActive(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t))

	for _, s := range []models.Slider{
		{Image: "/uploads/c.jpg", Order: 3, IsActive: true},
		{Image: "/uploads/a.jpg", Order: 1, IsActive: true},
		{Image: "/uploads/hidden.jpg", Order: 0, IsActive: false},
		{Image: "/uploads/b.jpg", Order: 2, IsActive: true},
	} {
		require.NoError(t, repo.Create(ctx, &s))
	}

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	var images []string
	for _, s := range active {
		images = append(images, s.Image)
	}
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"}, images)
}

func TestDeleteMissing(t *testing.T) {
	repo := NewRepository(testdb.Open(t))
	assert.ErrorIs(t, repo.Delete(context.Background(), 42), models.ErrNotFound)
}
