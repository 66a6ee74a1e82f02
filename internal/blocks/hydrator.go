package blocks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campuscms/internal/models"
)

const (
	defaultArticleLimit  = 6
	defaultEventLimit    = 6
	defaultFacilityLimit = 8
)

// Source is the read-only storage a Hydrator draws from.
type Source interface {
	// LatestArticles lists published articles, newest first.
	LatestArticles(ctx context.Context, categoryID *int, limit int) ([]models.Article, error)
	// ActiveSliders lists active sliders by ascending order.
	ActiveSliders(ctx context.Context) ([]models.Slider, error)
	// PublishedEvents lists published events by ascending start date,
	// starting at or after from when it is set.
	PublishedEvents(ctx context.Context, from *time.Time, limit int) ([]models.Event, error)
	// ActiveFacilities lists active facilities in insertion order.
	ActiveFacilities(ctx context.Context, limit int) ([]models.Facility, error)
	// ProgramStudies lists every program study by name.
	ProgramStudies(ctx context.Context) ([]models.ProgramStudy, error)
}

// Env is what a Handler may read besides its parameters. Now is fixed for
// the whole hydration.
type Env struct {
	Source Source
	Now    time.Time
}

// Handler loads the data of one dynamic block.
type Handler func(ctx context.Context, env Env, p Params) (any, error)

var handlers = map[Kind]Handler{
	LatestArticles: func(ctx context.Context, env Env, p Params) (any, error) {
		as, err := env.Source.LatestArticles(ctx, p.OptionalID("category_id"), p.Limit("limit", defaultArticleLimit))
		return nonNil(as), err
	},
	SliderModule: func(ctx context.Context, env Env, _ Params) (any, error) {
		ss, err := env.Source.ActiveSliders(ctx)
		return nonNil(ss), err
	},
	EventsList: func(ctx context.Context, env Env, p Params) (any, error) {
		var from *time.Time
		if p.Truthy("show_upcoming_only") {
			from = &env.Now
		}
		es, err := env.Source.PublishedEvents(ctx, from, p.Limit("limit", defaultEventLimit))
		return nonNil(es), err
	},
	FacilitiesGrid: func(ctx context.Context, env Env, p Params) (any, error) {
		fs, err := env.Source.ActiveFacilities(ctx, p.Limit("limit", defaultFacilityLimit))
		return nonNil(fs), err
	},
	ProgramStudies: func(ctx context.Context, env Env, _ Params) (any, error) {
		ps, err := env.Source.ProgramStudies(ctx)
		return nonNil(ps), err
	},
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Result maps block ids to the data loaded for them.
type Result map[string]any

// Hydrator fills dynamic blocks from a Source.
type Hydrator struct {
	Source Source
	// Now is the clock used for time-relative filters.
	Now func() time.Time
	Log *zap.Logger
	// OnHydrated, if set, is called once per hydrated block.
	OnHydrated func(Kind)
}

// NewHydrator creates a Hydrator reading from src with the wall clock.
func NewHydrator(src Source, log *zap.Logger) *Hydrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hydrator{Source: src, Now: time.Now, Log: log}
}

// Hydrate loads the data of every dynamic block in bs, keyed by block id.
// Blocks without an id or type and static blocks are skipped; a later block
// with a repeated id replaces the earlier one. The first storage error aborts
// the hydration.
func (h *Hydrator) Hydrate(ctx context.Context, bs []Block) (Result, error) {
	res := make(Result)
	if len(bs) == 0 {
		return res, nil
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	env := Env{Source: h.Source, Now: now()}

	for _, b := range bs {
		if b.ID == "" || b.Type == "" {
			continue
		}
		handle, ok := handlers[b.Type]
		if !ok {
			continue
		}
		data, err := handle(ctx, env, Params(b.Data))
		if err != nil {
			return nil, fmt.Errorf("error hydrating %s block %q: %w", b.Type, b.ID, err)
		}
		res[b.ID] = data
		if h.OnHydrated != nil {
			h.OnHydrated(b.Type)
		}
	}

	if h.Log != nil {
		h.Log.Debug("blocks hydrated", zap.Int("blocks", len(bs)), zap.Int("dynamic", len(res)))
	}
	return res, nil
}
