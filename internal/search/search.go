// Package search implements the public site search across content types.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"campuscms/internal/models"
	"campuscms/internal/web/renderer"
)

// Labels of the content types in search results.
const (
	TypeArticle  = "Berita"
	TypePage     = "Halaman"
	TypeEvent    = "Agenda"
	TypeFacility = "Fasilitas"
	TypeProgram  = "Program Studi"
)

const descriptionLength = 150

// Hit is one search result.
type Hit struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type ArticleSearcher interface {
	Search(ctx context.Context, term string) ([]models.Article, error)
}

type PageSearcher interface {
	Search(ctx context.Context, term string) ([]models.Page, error)
}

type EventSearcher interface {
	Search(ctx context.Context, term string) ([]models.Event, error)
}

type FacilitySearcher interface {
	Search(ctx context.Context, term string) ([]models.Facility, error)
}

type ProgramSearcher interface {
	Search(ctx context.Context, term string) ([]models.ProgramStudy, error)
}

// Service searches published articles, pages and events, active facilities
// and all program studies.
type Service struct {
	Articles   ArticleSearcher
	Pages      PageSearcher
	Events     EventSearcher
	Facilities FacilitySearcher
	Programs   ProgramSearcher
}

// Search runs the query against every content type concurrently. Results are
// grouped by type in a fixed order: articles, pages, events, facilities,
// program studies. An empty query returns no results.
func (s *Service) Search(ctx context.Context, q string) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	var groups [5][]Hit
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		as, err := s.Articles.Search(ctx, q)
		for _, a := range as {
			groups[0] = append(groups[0], Hit{a.Title, TypeArticle, "/berita/" + a.Slug, describe(a.Content)})
		}
		return err
	})
	g.Go(func() error {
		ps, err := s.Pages.Search(ctx, q)
		for _, p := range ps {
			groups[1] = append(groups[1], Hit{p.Title, TypePage, "/" + p.Slug, describe(p.Content)})
		}
		return err
	})
	g.Go(func() error {
		es, err := s.Events.Search(ctx, q)
		for _, e := range es {
			groups[2] = append(groups[2], Hit{e.Title, TypeEvent, "/agenda/" + e.Slug, describe(e.Description)})
		}
		return err
	})
	g.Go(func() error {
		fs, err := s.Facilities.Search(ctx, q)
		for _, f := range fs {
			groups[3] = append(groups[3], Hit{f.Title, TypeFacility, "/fasilitas/" + f.Slug, describe(f.Description)})
		}
		return err
	})
	g.Go(func() error {
		ps, err := s.Programs.Search(ctx, q)
		for _, p := range ps {
			title := strings.TrimSpace(p.Degree + " " + p.Name)
			groups[4] = append(groups[4], Hit{title, TypeProgram, "/prodi/" + p.Slug, describe(p.Description)})
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits := []Hit{}
	for _, group := range groups {
		hits = append(hits, group...)
	}
	return hits, nil
}

// describe returns the first characters of the text of s, always followed
// by "...".
func describe(s string) string {
	text := renderer.StripTags(s)
	if utf8.RuneCountInString(text) > descriptionLength {
		text = string([]rune(text)[:descriptionLength])
	}
	return text + "..."
}
