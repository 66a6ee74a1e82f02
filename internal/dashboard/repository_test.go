package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscms/internal/database/testdb"
)

func TestCounts(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	repo := NewRepository(db)

	c, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, c)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = db.Exec("INSERT INTO users (username, display_name) VALUES ('a', 'A'), ('b', 'B')")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO articles (title, slug, content, created_at, updated_at) VALUES (?, ?, '', ?, ?)`,
		"Hello", "hello", now, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sliders (image, created_at) VALUES ('/uploads/a.png', ?)`, now)
	require.NoError(t, err)

	c, err = repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Articles: 1, Users: 2, Sliders: 1}, c)
}

func TestRecent(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	repo := NewRepository(db)

	for _, name := range []string{"a", "b", "c"} {
		_, err := db.Exec("INSERT INTO users (username, display_name) VALUES (?, ?)", name, name)
		require.NoError(t, err)
	}
	users, err := repo.RecentUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "c", users[0].Username)
	assert.Equal(t, "b", users[1].Username)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"old", "draft"} {
		_, err := db.Exec(`INSERT INTO articles (title, slug, content, is_published, created_at, updated_at)
			VALUES (?, ?, '', ?, ?, ?)`, slug, slug, i == 0, base.Add(time.Duration(i)*time.Hour), base)
		require.NoError(t, err)
	}
	articles, err := repo.RecentArticles(ctx, 5)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "draft", articles[0].Slug)
	assert.False(t, articles[0].IsPublished)
}
