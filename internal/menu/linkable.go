package menu

import (
	"context"
	"fmt"

	"campuscms/internal/models"
)

// LinkKind tells what a menu item links to.
type LinkKind int

const (
	LinkCustom LinkKind = iota
	LinkArticle
	LinkPage
)

func (k LinkKind) String() string {
	switch k {
	case LinkArticle:
		return "article"
	case LinkPage:
		return "page"
	default:
		return "custom"
	}
}

// Linkable is the target of a menu item: a custom URL, or an article or page
// identified by ID.
type Linkable struct {
	Kind LinkKind
	ID   int
}

// ParseLinkable reads the linkable_type/linkable_id pair of a menu item form.
// An empty type means a custom URL.
func ParseLinkable(typ string, id *int) (Linkable, error) {
	var kind LinkKind
	switch typ {
	case "", "custom":
		return Linkable{Kind: LinkCustom}, nil
	case "article":
		kind = LinkArticle
	case "page":
		kind = LinkPage
	default:
		return Linkable{}, fmt.Errorf("%w: unknown linkable type %q", models.ErrInvalid, typ)
	}
	if id == nil {
		return Linkable{}, fmt.Errorf("%w: linkable_id is required for %s links", models.ErrInvalid, typ)
	}
	return Linkable{Kind: kind, ID: *id}, nil
}

// URLResolver turns the ID of a linkable record into its public URL.
type URLResolver interface {
	ResolveURL(ctx context.Context, id int) (string, error)
}

// ResolverFunc adapts a function to URLResolver.
type ResolverFunc func(ctx context.Context, id int) (string, error)

func (f ResolverFunc) ResolveURL(ctx context.Context, id int) (string, error) {
	return f(ctx, id)
}

// Links holds one resolver per linkable kind.
type Links map[LinkKind]URLResolver

// ResolveURL returns the public URL of l. Custom links resolve to "" and keep
// the URL entered by the editor. A missing record yields models.ErrNotFound.
func (ls Links) ResolveURL(ctx context.Context, l Linkable) (string, error) {
	if l.Kind == LinkCustom {
		return "", nil
	}
	r, ok := ls[l.Kind]
	if !ok {
		return "", fmt.Errorf("%w: no resolver for %s links", models.ErrInvalid, l.Kind)
	}
	return r.ResolveURL(ctx, l.ID)
}

// ArticleFinder is the article lookup the article resolver needs.
type ArticleFinder interface {
	FindByID(ctx context.Context, id int) (models.Article, error)
}

// PageFinder is the page lookup the page resolver needs.
type PageFinder interface {
	FindByID(ctx context.Context, id int) (models.Page, error)
}

// ArticleURL resolves articles to /berita/{slug}.
func ArticleURL(articles ArticleFinder) URLResolver {
	return ResolverFunc(func(ctx context.Context, id int) (string, error) {
		a, err := articles.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		return "/berita/" + a.Slug, nil
	})
}

// PageURL resolves pages to /{slug}.
func PageURL(pages PageFinder) URLResolver {
	return ResolverFunc(func(ctx context.Context, id int) (string, error) {
		p, err := pages.FindByID(ctx, id)
		if err != nil {
			return "", err
		}
		return "/" + p.Slug, nil
	})
}

// DefaultLinks wires the article and page resolvers.
func DefaultLinks(articles ArticleFinder, pages PageFinder) Links {
	return Links{
		LinkArticle: ArticleURL(articles),
		LinkPage:    PageURL(pages),
	}
}
