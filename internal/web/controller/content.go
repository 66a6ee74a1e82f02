package controller

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/document"
	"campuscms/internal/event"
	"campuscms/internal/facility"
	"campuscms/internal/models"
	"campuscms/internal/program"
	"campuscms/internal/slider"
	"campuscms/internal/slug"
	"campuscms/internal/staff"
)

// deriveSlug picks the slug of a record being written: the explicit one if
// given, else the current one on update, else one made from title.
func deriveSlug(explicit, title, current string, suffix bool) (string, error) {
	switch {
	case strings.TrimSpace(explicit) != "":
		s := slug.Make(explicit)
		if s == "" {
			return "", invalid("slug %q has no usable characters", explicit)
		}
		return s, nil
	case current != "":
		return current, nil
	case suffix:
		return slug.WithSuffix(title), nil
	default:
		s := slug.Make(title)
		if s == "" {
			return "", invalid("cannot derive a slug from %q", title)
		}
		return s, nil
	}
}

func required(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return invalid("%s is required", fields[i])
		}
	}
	return nil
}

// Content registers the admin CRUD routes of the simple content types.
type Content struct {
	Events     *event.Repository
	Facilities *facility.Repository
	Programs   *program.Repository
	Sliders    *slider.Repository
	Staff      *staff.Repository
	Documents  *document.Repository
	Categories *article.Repository
	Log        *zap.Logger
}

// RegisterEditor registers the content types writers may manage.
func (c *Content) RegisterEditor(mux *http.ServeMux) {
	(&resource[models.Event]{Store: c.Events, Log: c.Log, Prepare: c.prepareEvent}).Register(mux, "/admin/events")
	(&resource[models.Facility]{Store: c.Facilities, Log: c.Log, Prepare: c.prepareFacility}).Register(mux, "/admin/facilities")
	(&resource[models.Slider]{Store: c.Sliders, Log: c.Log, Prepare: c.prepareSlider}).Register(mux, "/admin/sliders")
	(&resource[models.Document]{Store: c.Documents, Log: c.Log, Prepare: c.prepareDocument}).Register(mux, "/admin/documents")
}

// RegisterAdmin registers the content types only administrators manage.
func (c *Content) RegisterAdmin(mux *http.ServeMux) {
	(&resource[models.ProgramStudy]{Store: c.Programs, Log: c.Log, Prepare: c.prepareProgram}).Register(mux, "/admin/program-studies")
	(&resource[models.Staff]{Store: c.Staff, Log: c.Log, Prepare: c.prepareStaff}).Register(mux, "/admin/staff")
	(&resource[models.Category]{Store: categoryStore{c.Categories}, Log: c.Log, Prepare: c.prepareCategory}).Register(mux, "/admin/categories")
}

func (c *Content) prepareEvent(ctx context.Context, e *models.Event, id int) error {
	if err := required("title", e.Title); err != nil {
		return err
	}
	if e.StartDate.IsZero() {
		return invalid("start_date is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return invalid("end_date must not be before start_date")
	}
	var current models.Event
	if id != 0 {
		var err error
		if current, err = c.Events.FindByID(ctx, id); err != nil {
			return err
		}
		e.ID, e.CreatedAt = id, current.CreatedAt
	}
	var err error
	e.Slug, err = deriveSlug(e.Slug, e.Title, current.Slug, true)
	return err
}

func (c *Content) prepareFacility(ctx context.Context, f *models.Facility, id int) error {
	if err := required("title", f.Title); err != nil {
		return err
	}
	if f.Capacity != nil && *f.Capacity < 0 {
		return invalid("capacity must not be negative")
	}
	var current models.Facility
	if id != 0 {
		var err error
		if current, err = c.Facilities.FindByID(ctx, id); err != nil {
			return err
		}
		f.ID, f.CreatedAt = id, current.CreatedAt
	}
	var err error
	f.Slug, err = deriveSlug(f.Slug, f.Title, current.Slug, false)
	return err
}

func (c *Content) prepareSlider(ctx context.Context, s *models.Slider, id int) error {
	if err := required("image", s.Image); err != nil {
		return err
	}
	if id != 0 {
		current, err := c.Sliders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		s.ID, s.CreatedAt = id, current.CreatedAt
	}
	return nil
}

func (c *Content) prepareDocument(ctx context.Context, d *models.Document, id int) error {
	if err := required("title", d.Title, "file_path", d.FilePath); err != nil {
		return err
	}
	var current models.Document
	if id != 0 {
		var err error
		if current, err = c.Documents.FindByID(ctx, id); err != nil {
			return err
		}
		d.ID, d.CreatedAt = id, current.CreatedAt
	}
	var err error
	d.Slug, err = deriveSlug(d.Slug, d.Title, current.Slug, true)
	return err
}

func (c *Content) prepareProgram(ctx context.Context, p *models.ProgramStudy, id int) error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	var current models.ProgramStudy
	if id != 0 {
		var err error
		if current, err = c.Programs.FindByID(ctx, id); err != nil {
			return err
		}
		p.ID = id
	}
	var err error
	p.Slug, err = deriveSlug(p.Slug, p.Name, current.Slug, false)
	return err
}

func (c *Content) prepareStaff(_ context.Context, s *models.Staff, id int) error {
	if err := required("name", s.Name, "position", s.Position); err != nil {
		return err
	}
	switch s.StaffType {
	case "":
		s.StaffType = models.StaffLecturer
	case models.StaffLecturer, models.StaffEducation, models.StaffLeadership:
	default:
		return invalid("unknown staff type %q", s.StaffType)
	}
	s.ID = id
	return nil
}

func (c *Content) prepareCategory(_ context.Context, cat *models.Category, id int) error {
	if err := required("name", cat.Name); err != nil {
		return err
	}
	cat.ID = id
	var err error
	cat.Slug, err = deriveSlug(cat.Slug, cat.Name, "", false)
	return err
}

// categoryStore adapts the category methods of the article repository.
type categoryStore struct {
	repo *article.Repository
}

func (s categoryStore) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s categoryStore) FindByID(ctx context.Context, id int) (models.Category, error) {
	return s.repo.FindCategory(ctx, id)
}

func (s categoryStore) Create(ctx context.Context, c *models.Category) error {
	return s.repo.CreateCategory(ctx, c)
}

func (s categoryStore) Update(ctx context.Context, c *models.Category) error {
	return s.repo.UpdateCategory(ctx, c)
}

func (s categoryStore) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteCategory(ctx, id)
}
