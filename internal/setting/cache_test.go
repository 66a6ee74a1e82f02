package setting

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"campuscms/internal/database/testdb"
	"campuscms/internal/models"
)

func ptr(s string) *string { return &s }

func TestCacheGetSet(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	c := NewCache(NewRepository(db), 0)

	v, err := c.Get(ctx, "site_name", "Fallback")
	require.NoError(t, err)
	assert.Equal(t, "Fallback", v)

	require.NoError(t, c.Set(ctx, "site_name", "Fakultas Keperawatan"))
	v, err = c.Get(ctx, "site_name", "Fallback")
	require.NoError(t, err)
	assert.Equal(t, "Fakultas Keperawatan", v)

	// Writes that bypass the cache are not visible until invalidation.
	_, err = db.Exec("UPDATE settings SET value = 'changed' WHERE key = 'site_name'")
	require.NoError(t, err)
	v, _ = c.Get(ctx, "site_name", "")
	assert.Equal(t, "Fakultas Keperawatan", v)

	c.Invalidate("site_name")
	v, _ = c.Get(ctx, "site_name", "")
	assert.Equal(t, "changed", v)
}

func TestCacheUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t))
	c := NewCache(repo, 0)

	require.NoError(t, repo.Define(ctx, models.Setting{Key: "maintenance", Value: ptr("0"), Type: models.SettingBoolean, Group: "general", Label: "Maintenance"}))
	require.NoError(t, repo.Define(ctx, models.Setting{Key: "phone", Value: ptr("123"), Type: models.SettingText, Group: "contact", Label: "Phone"}))

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all["general"], 1)
	assert.Len(t, all["contact"], 1)

	require.NoError(t, c.Update(ctx, map[string]string{
		"maintenance": "on",
		"phone":       "456",
		"unknown":     "ignored",
	}))

	v, _ := c.Get(ctx, "maintenance", "")
	assert.Equal(t, "1", v)
	v, _ = c.Get(ctx, "phone", "")
	assert.Equal(t, "456", v)

	_, err = repo.Find(ctx, "unknown")
	assert.ErrorIs(t, err, models.ErrNotFound)

	all, err = c.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "456", *all["contact"][0].Value)
}

func TestNormalizeBool(t *testing.T) {
	for in, want := range map[string]string{"true": "1", "1": "1", "on": "1", "false": "0", "0": "0", "": "0", "garbage": "0"} {
		assert.Equal(t, want, normalizeBool(in), in)
	}
}

func TestSeedKeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t))

	require.NoError(t, repo.Upsert(ctx, "site_name", "Kampus Kita"))
	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(Defaults))

	name, err := repo.Find(ctx, "site_name")
	require.NoError(t, err)
	assert.Equal(t, "Kampus Kita", *name.Value)

	display, err := repo.Find(ctx, "homepage_display")
	require.NoError(t, err)
	assert.Equal(t, models.SettingSelect, display.Type)
	assert.Equal(t, "homepage", display.Group)
}

// memStore keeps settings in a map. When findGate is set, Find reads the
// value, reports on findEntered and waits on findGate before returning.
type memStore struct {
	mu          sync.Mutex
	values      map[string]string
	findEntered chan struct{}
	findGate    chan struct{}
}

func (m *memStore) Find(ctx context.Context, key string) (models.Setting, error) {
	m.mu.Lock()
	v, ok := m.values[key]
	gate := m.findGate
	m.findGate = nil
	m.mu.Unlock()

	if gate != nil {
		m.findEntered <- struct{}{}
		<-gate
	}
	if !ok {
		return models.Setting{}, models.ErrNotFound
	}
	return models.Setting{Key: key, Value: &v, Type: models.SettingText, Group: "general"}, nil
}

func (m *memStore) List(ctx context.Context) ([]models.Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Setting
	for k, v := range m.values {
		out = append(out, models.Setting{Key: k, Value: ptr(v), Type: models.SettingText, Group: "general"})
	}
	return out, nil
}

func (m *memStore) Upsert(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func TestCacheFillRacingWrite(t *testing.T) {
	ctx := context.Background()
	store := &memStore{
		values:      map[string]string{"site_name": "old"},
		findEntered: make(chan struct{}),
		findGate:    make(chan struct{}),
	}
	gate := store.findGate
	c := NewCache(store, 0)

	done := make(chan string)
	go func() {
		v, err := c.Get(ctx, "site_name", "")
		assert.NoError(t, err)
		done <- v
	}()

	// The read has loaded "old" and not yet stored it when the write lands.
	<-store.findEntered
	require.NoError(t, c.Set(ctx, "site_name", "new"))
	close(gate)
	assert.Equal(t, "old", <-done)

	v, err := c.Get(ctx, "site_name", "")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestCacheStartReturns(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCache(&memStore{values: map[string]string{}}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(started)
	}()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("Start blocked while ctx is live")
	}

	require.NoError(t, c.Set(ctx, "phone", "123"))
	v, err := c.Get(ctx, "phone", "")
	require.NoError(t, err)
	assert.Equal(t, "123", v)

	cancel()
}
