package web

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"campuscms/internal/article"
	"campuscms/internal/attachment"
	"campuscms/internal/auth"
	"campuscms/internal/blocks"
	"campuscms/internal/dashboard"
	"campuscms/internal/document"
	"campuscms/internal/event"
	"campuscms/internal/facility"
	"campuscms/internal/menu"
	"campuscms/internal/metrics"
	"campuscms/internal/page"
	"campuscms/internal/program"
	"campuscms/internal/search"
	"campuscms/internal/setting"
	"campuscms/internal/slider"
	"campuscms/internal/staff"
)

// Options configures a Server.
type Options struct {
	DB          *sql.DB
	Sessions    sessions.Store
	SessionName string
	Settings    *setting.Cache
	UploadDir   string
	// UploadMaxBytes caps the size of one uploaded file.
	UploadMaxBytes int64
	Metrics        *metrics.Metrics
	Log            *zap.Logger
	// Now is the clock of time-relative listings; nil means time.Now.
	Now func() time.Time
}

// Server holds the dependencies for the web server.
type Server struct {
	opts Options
	log  *zap.Logger

	authService    *auth.Service
	articleRepo    *article.Repository
	attachmentRepo *attachment.Repository
	dashboardRepo  *dashboard.Repository
	documentRepo   *document.Repository
	eventRepo      *event.Repository
	facilityRepo   *facility.Repository
	pageRepo       *page.Repository
	programRepo    *program.Repository
	sliderRepo     *slider.Repository
	staffRepo      *staff.Repository
	menuService    *menu.Service
	hydrator       *blocks.Hydrator
	search         *search.Service

	handler http.Handler
}

// NewServer creates a new server with the given dependencies.
func NewServer(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Settings == nil {
		opts.Settings = setting.NewCache(setting.NewRepository(opts.DB), 0)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	db := opts.DB

	s := &Server{
		opts:           opts,
		log:            log,
		authService:    auth.NewService(auth.NewRepository(db), opts.Sessions, opts.SessionName, log.Named("auth")),
		articleRepo:    article.NewRepository(db),
		attachmentRepo: attachment.NewRepository(db),
		dashboardRepo:  dashboard.NewRepository(db),
		documentRepo:   document.NewRepository(db),
		eventRepo:      event.NewRepository(db),
		facilityRepo:   facility.NewRepository(db),
		pageRepo:       page.NewRepository(db),
		programRepo:    program.NewRepository(db),
		sliderRepo:     slider.NewRepository(db),
		staffRepo:      staff.NewRepository(db),
	}

	s.menuService = menu.NewService(menu.NewRepository(db),
		menu.DefaultLinks(s.articleRepo, s.pageRepo), log.Named("menu"))

	s.hydrator = blocks.NewHydrator(blocks.RepoSource{
		Articles:   s.articleRepo,
		Sliders:    s.sliderRepo,
		Events:     s.eventRepo,
		Facilities: s.facilityRepo,
		Programs:   s.programRepo,
	}, log.Named("blocks"))
	s.hydrator.Now = opts.Now
	s.hydrator.OnHydrated = opts.Metrics.ObserveBlock

	s.search = &search.Service{
		Articles:   s.articleRepo,
		Pages:      s.pageRepo,
		Events:     s.eventRepo,
		Facilities: s.facilityRepo,
		Programs:   s.programRepo,
	}

	s.handler = s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
