package blocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscms/internal/article"
	"campuscms/internal/database/testdb"
	"campuscms/internal/event"
	"campuscms/internal/facility"
	"campuscms/internal/models"
	"campuscms/internal/program"
	"campuscms/internal/slider"
)

func newRepoSource(t *testing.T) RepoSource {
	t.Helper()
	db := testdb.Open(t)
	return RepoSource{
		Articles:   article.NewRepository(db),
		Sliders:    slider.NewRepository(db),
		Events:     event.NewRepository(db),
		Facilities: facility.NewRepository(db),
		Programs:   program.NewRepository(db),
	}
}

func TestHydrateFromStorage(t *testing.T) {
	ctx := context.Background()
	src := newRepoSource(t)

	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"a1", "a2", "a3"} {
		a := models.Article{Title: title, Slug: title, Content: "x", IsPublished: true, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, src.Articles.Create(ctx, &a))
	}

	for _, s := range []models.Slider{
		{Image: "s3.jpg", Order: 3, IsActive: true},
		{Image: "off.jpg", Order: 0, IsActive: false},
		{Image: "s1.jpg", Order: 1, IsActive: true},
		{Image: "s2.jpg", Order: 2, IsActive: true},
	} {
		require.NoError(t, src.Sliders.Create(ctx, &s))
	}

	for _, e := range []models.Event{
		{Title: "past", Slug: "past", StartDate: fixedNow.Add(-48 * time.Hour), IsPublished: true},
		{Title: "soon", Slug: "soon", StartDate: fixedNow.Add(24 * time.Hour), IsPublished: true},
		{Title: "later", Slug: "later", StartDate: fixedNow.Add(72 * time.Hour), IsPublished: true},
	} {
		require.NoError(t, src.Events.Create(ctx, &e))
	}

	for _, name := range []string{"Teknik Sipil", "Akuntansi", "Manajemen"} {
		p := models.ProgramStudy{Name: name, Slug: name}
		require.NoError(t, src.Programs.Create(ctx, &p))
	}

	h := newTestHydrator(src)
	page := []Block{
		{ID: "news", Type: LatestArticles, Data: map[string]any{"limit": float64(2)}},
		{ID: "hero", Type: SliderModule},
		{ID: "agenda", Type: EventsList, Data: map[string]any{"show_upcoming_only": "1"}},
		{ID: "prodi", Type: ProgramStudies},
		{ID: "", Type: FacilitiesGrid},
		{ID: "quote", Type: "quote"},
	}
	res, err := h.Hydrate(ctx, page)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"news", "hero", "agenda", "prodi"}, keys(res))

	news := res["news"].([]models.Article)
	require.Len(t, news, 2)
	assert.Equal(t, "a3", news[0].Title)
	assert.Equal(t, "a2", news[1].Title)

	var images []string
	for _, s := range res["hero"].([]models.Slider) {
		images = append(images, s.Image)
	}
	assert.Equal(t, []string{"s1.jpg", "s2.jpg", "s3.jpg"}, images)

	var titles []string
	for _, e := range res["agenda"].([]models.Event) {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"soon", "later"}, titles)

	var names []string
	for _, p := range res["prodi"].([]models.ProgramStudy) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Akuntansi", "Manajemen", "Teknik Sipil"}, names)

	again, err := h.Hydrate(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestHydrateFacilitiesDefaultLimit(t *testing.T) {
	ctx := context.Background()
	src := newRepoSource(t)

	for i := 0; i < 10; i++ {
		f := models.Facility{Title: "Lab", Slug: "lab-" + string(rune('a'+i)), IsActive: i != 0}
		require.NoError(t, src.Facilities.Create(ctx, &f))
	}

	res, err := newTestHydrator(src).Hydrate(ctx, []Block{{ID: "f", Type: FacilitiesGrid}})
	require.NoError(t, err)
	fs := res["f"].([]models.Facility)
	require.Len(t, fs, 8)
	assert.Equal(t, 2, fs[0].ID)
	assert.Equal(t, 9, fs[7].ID)
}
