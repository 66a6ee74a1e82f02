package blocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"campuscms/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type articleCall struct {
	categoryID *int
	limit      int
}

type eventCall struct {
	from  *time.Time
	limit int
}

// fakeSource records the queries it receives.
type fakeSource struct {
	articles   []articleCall
	events     []eventCall
	facilities []int
	sliders    int
	programs   int
	err        error
}

func (f *fakeSource) LatestArticles(_ context.Context, categoryID *int, limit int) ([]models.Article, error) {
	f.articles = append(f.articles, articleCall{categoryID, limit})
	return []models.Article{{ID: 1, Title: "a"}}, f.err
}

func (f *fakeSource) ActiveSliders(context.Context) ([]models.Slider, error) {
	f.sliders++
	return nil, f.err
}

func (f *fakeSource) PublishedEvents(_ context.Context, from *time.Time, limit int) ([]models.Event, error) {
	f.events = append(f.events, eventCall{from, limit})
	return []models.Event{{ID: 7}}, f.err
}

func (f *fakeSource) ActiveFacilities(_ context.Context, limit int) ([]models.Facility, error) {
	f.facilities = append(f.facilities, limit)
	return nil, f.err
}

func (f *fakeSource) ProgramStudies(context.Context) ([]models.ProgramStudy, error) {
	f.programs++
	return []models.ProgramStudy{{ID: 1, Name: "Informatika"}}, f.err
}

var fixedNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newTestHydrator(src Source) *Hydrator {
	h := NewHydrator(src, nil)
	h.Now = func() time.Time { return fixedNow }
	return h
}

func TestHydrateDefaults(t *testing.T) {
	src := &fakeSource{}
	res, err := newTestHydrator(src).Hydrate(context.Background(), []Block{
		{ID: "a", Type: LatestArticles},
		{ID: "s", Type: SliderModule},
		{ID: "e", Type: EventsList},
		{ID: "f", Type: FacilitiesGrid},
		{ID: "p", Type: ProgramStudies},
	})
	require.NoError(t, err)
	assert.Len(t, res, 5)

	assert.Equal(t, []articleCall{{nil, 6}}, src.articles)
	assert.Equal(t, []eventCall{{nil, 6}}, src.events)
	assert.Equal(t, []int{8}, src.facilities)
	assert.Equal(t, 1, src.sliders)
	assert.Equal(t, 1, src.programs)

	// Empty results are lists, never null.
	assert.Equal(t, []models.Slider{}, res["s"])
	assert.Equal(t, []models.Facility{}, res["f"])
}

func TestHydrateParams(t *testing.T) {
	src := &fakeSource{}
	_, err := newTestHydrator(src).Hydrate(context.Background(), []Block{
		{ID: "a", Type: LatestArticles, Data: map[string]any{"limit": "2", "category_id": "5"}},
		{ID: "e", Type: EventsList, Data: map[string]any{"limit": float64(3), "show_upcoming_only": true}},
		{ID: "e2", Type: EventsList, Data: map[string]any{"show_upcoming_only": "0", "limit": float64(-1)}},
		{ID: "f", Type: FacilitiesGrid, Data: map[string]any{"limit": "lots"}},
	})
	require.NoError(t, err)

	require.Len(t, src.articles, 1)
	require.NotNil(t, src.articles[0].categoryID)
	assert.Equal(t, 5, *src.articles[0].categoryID)
	assert.Equal(t, 2, src.articles[0].limit)

	require.Len(t, src.events, 2)
	require.NotNil(t, src.events[0].from)
	assert.Equal(t, fixedNow, *src.events[0].from)
	assert.Equal(t, 3, src.events[0].limit)
	assert.Nil(t, src.events[1].from)
	assert.Equal(t, 6, src.events[1].limit)

	assert.Equal(t, []int{8}, src.facilities)
}

func TestHydrateSkips(t *testing.T) {
	src := &fakeSource{}
	res, err := newTestHydrator(src).Hydrate(context.Background(), []Block{
		{Type: LatestArticles},
		{ID: "no-type"},
		{ID: "hero", Type: "hero_banner", Data: map[string]any{"title": "Selamat datang"}},
		{ID: "text", Type: "text"},
		{ID: "p", Type: ProgramStudies},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, keys(res))
	assert.Empty(t, src.articles)
}

func TestHydrateEmpty(t *testing.T) {
	for _, bs := range [][]Block{nil, {}} {
		res, err := newTestHydrator(&fakeSource{}).Hydrate(context.Background(), bs)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	}
}

func TestHydrateStorageError(t *testing.T) {
	boom := errors.New("disk on fire")
	res, err := newTestHydrator(&fakeSource{err: boom}).Hydrate(context.Background(), []Block{
		{ID: "p", Type: ProgramStudies},
	})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, boom))
}

func TestHydrateReportsKinds(t *testing.T) {
	h := newTestHydrator(&fakeSource{})
	var kinds []Kind
	h.OnHydrated = func(k Kind) { kinds = append(kinds, k) }

	_, err := h.Hydrate(context.Background(), []Block{
		{ID: "a", Type: LatestArticles},
		{ID: "x", Type: "quote"},
		{ID: "p", Type: ProgramStudies},
	})
	require.NoError(t, err)
	assert.Equal(t, []Kind{LatestArticles, ProgramStudies}, kinds)
}

func keys(r Result) []string {
	var out []string
	for k := range r {
		out = append(out, k)
	}
	return out
}
