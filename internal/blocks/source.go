package blocks

import (
	"context"
	"time"

	"campuscms/internal/article"
	"campuscms/internal/event"
	"campuscms/internal/facility"
	"campuscms/internal/models"
	"campuscms/internal/program"
	"campuscms/internal/slider"
)

// RepoSource is the Source backed by the content repositories.
type RepoSource struct {
	Articles   *article.Repository
	Sliders    *slider.Repository
	Events     *event.Repository
	Facilities *facility.Repository
	Programs   *program.Repository
}

func (s RepoSource) LatestArticles(ctx context.Context, categoryID *int, limit int) ([]models.Article, error) {
	return s.Articles.Latest(ctx, categoryID, limit)
}

func (s RepoSource) ActiveSliders(ctx context.Context) ([]models.Slider, error) {
	return s.Sliders.ListActive(ctx)
}

func (s RepoSource) PublishedEvents(ctx context.Context, from *time.Time, limit int) ([]models.Event, error) {
	return s.Events.ListPublished(ctx, from, limit)
}

func (s RepoSource) ActiveFacilities(ctx context.Context, limit int) ([]models.Facility, error) {
	return s.Facilities.ListActive(ctx, limit)
}

func (s RepoSource) ProgramStudies(ctx context.Context) ([]models.ProgramStudy, error) {
	return s.Programs.List(ctx)
}
