package web

import (
	"net/http"

	"campuscms/internal/web/controller"
	"campuscms/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	log := s.log
	mux := http.NewServeMux()
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.opts.UploadDir))))
	mux.Handle("GET /metrics", s.opts.Metrics.Handler())

	authController := controller.Auth{AuthService: s.authService, Log: log}
	authController.Register(mux)

	articleController := controller.Article{Repo: s.articleRepo, Log: log}
	articleController.RegisterPublic(mux)

	pageController := controller.Page{
		PageRepo:    s.pageRepo,
		ArticleRepo: s.articleRepo,
		EventRepo:   s.eventRepo,
		Hydrator:    s.hydrator,
		Log:         log,
	}
	pageController.RegisterPublic(mux)

	menuController := controller.Menu{
		Service:     s.menuService,
		ArticleRepo: s.articleRepo,
		PageRepo:    s.pageRepo,
		Log:         log,
	}
	menuController.RegisterPublic(mux)

	builderController := controller.Builder{Hydrator: s.hydrator, ArticleRepo: s.articleRepo, Log: log}
	builderController.Register(mux)

	searchController := controller.Search{Service: s.search, ArticleRepo: s.articleRepo, Log: log}
	searchController.Register(mux)

	publicController := controller.Public{
		Articles:   s.articleRepo,
		Sliders:    s.sliderRepo,
		Events:     s.eventRepo,
		Facilities: s.facilityRepo,
		Programs:   s.programRepo,
		Staff:      s.staffRepo,
		Documents:  s.documentRepo,
		Menus:      s.menuService,
		Settings:   s.opts.Settings,
		UploadDir:  s.opts.UploadDir,
		Now:        s.opts.Now,
		Log:        log,
	}
	publicController.Register(mux)

	// Administrators and writers.
	editorMux := http.NewServeMux()
	articleController.RegisterAdmin(editorMux)
	pageController.RegisterAdmin(editorMux)

	content := controller.Content{
		Events:     s.eventRepo,
		Facilities: s.facilityRepo,
		Programs:   s.programRepo,
		Sliders:    s.sliderRepo,
		Staff:      s.staffRepo,
		Documents:  s.documentRepo,
		Categories: s.articleRepo,
		Log:        log,
	}
	content.RegisterEditor(editorMux)

	miscController := controller.Misc{
		Uploader: &controller.Uploader{
			Dir:         s.opts.UploadDir,
			MaxBytes:    s.opts.UploadMaxBytes,
			Attachments: s.attachmentRepo,
		},
		AttachmentRepo: s.attachmentRepo,
		Log:            log,
	}
	miscController.Register(editorMux)

	dashboardController := controller.Dashboard{
		Repo:      s.dashboardRepo,
		EventRepo: s.eventRepo,
		Now:       s.opts.Now,
		Log:       log,
	}
	dashboardController.Register(editorMux)

	// Administrators only.
	adminMux := http.NewServeMux()
	content.RegisterAdmin(adminMux)
	menuController.RegisterAdmin(adminMux)

	userController := controller.User{AuthService: s.authService, Log: log}
	userController.Register(adminMux)

	settingController := controller.Setting{Cache: s.opts.Settings, Log: log}
	settingController.Register(adminMux)

	editor := middleware.Editor()(editorMux)
	admin := middleware.Admin()(adminMux)
	// The pattern of the inner route is set before the guards run so that
	// rejected requests are labelled by the route they asked for too.
	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := adminMux.Handler(r); pattern != "" {
			r.Pattern = pattern
			admin.ServeHTTP(w, r)
			return
		}
		if _, pattern := editorMux.Handler(r); pattern != "" {
			r.Pattern = pattern
		}
		editor.ServeHTTP(w, r)
	})
	mux.Handle("/admin/", middleware.Auth()(dispatch))

	return middleware.AccessLog(log.Named("http"))(
		middleware.WithUser(s.authService)(
			s.opts.Metrics.Middleware(mux)))
}
