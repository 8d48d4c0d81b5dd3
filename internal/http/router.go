package http

import (
	"encoding/json"
	"html/template"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/auth"
	"booklibrary/internal/database"
	"booklibrary/internal/database/catalog"
	"booklibrary/internal/database/refdata"
	"booklibrary/internal/database/stats"
	"booklibrary/internal/database/userbooks"
	"booklibrary/internal/storage"
	"booklibrary/internal/validation"
)

// RouterConfig carries every dependency the router wires into its
// controllers.
type RouterConfig struct {
	Database  *database.Database
	Catalog   *catalog.Repository
	RefData   *refdata.Repository
	UserBooks *userbooks.Repository
	Stats     *stats.Repository
	Store     *storage.Store

	Limits validation.Limits
	TopN   int

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	LoginLimiter   *auth.RateLimiter
	CSRFSecret     []byte
	SecureCookies  bool

	TemplatesPath string
	StaticPath    string
	MediaRoot     string
	Version       string
}

// templateFuncs are the helpers available to every template. json is
// used by the chart pages to embed distribution data.
var templateFuncs = template.FuncMap{
	"json": func(v any) template.JS {
		b, err := json.Marshal(v)
		if err != nil {
			return template.JS("null")
		}
		return template.JS(b)
	},
}

// NewRouter builds the full route table. POST-only routes answer GET
// with 405 rather than 404.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.HandleMethodNotAllowed = true

	router.Use(auth.SecurityHeadersMiddleware())
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.SessionManager.SessionLoadSave())

	authMiddleware := auth.NewMiddleware(cfg.AuthService, cfg.SessionManager)
	router.Use(authMiddleware.CurrentUser())

	if cfg.TemplatesPath != "" {
		pattern := filepath.Join(cfg.TemplatesPath, "*.html")
		router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseGlob(pattern)))
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}
	if cfg.MediaRoot != "" {
		router.Static("/media", cfg.MediaRoot)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	library := NewLibraryController(cfg.Catalog, cfg.RefData, cfg.UserBooks, cfg.Store, cfg.Limits)
	userLibrary := NewUserLibraryController(cfg.Catalog, cfg.UserBooks)
	account := NewAccountController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter)
	statistics := NewStatsController(cfg.Stats, cfg.Limits, cfg.TopN)

	router.GET("/health", health.Status)

	// Public catalog pages
	router.GET("/", library.HomePage)
	router.GET("/library/", library.LibraryPage)
	router.GET("/library_search/", library.LibrarySearch)
	router.GET("/library/book/:slug", library.BookPage)

	// Account
	router.GET("/registration/", account.RegisterPage)
	router.POST("/registration/", account.Register)
	router.GET("/login", account.LoginPage)
	router.POST("/login", account.Login)
	router.POST("/logout", account.Logout)

	// Everything below requires a logged-in viewer
	protected := router.Group("", authMiddleware.RequireAuth())

	protected.GET("/account/", account.Page)

	protected.GET("/add_book/", library.AddBookPage)
	protected.POST("/add_book/", library.AddBook)
	protected.POST("/library/book/:slug/delete", library.DeleteBook)

	protected.POST("/library/add/:id", userLibrary.Add)
	protected.POST("/library/remove/:id", userLibrary.Remove)
	protected.POST("/library/read/:id", userLibrary.ToggleRead)
	protected.GET("/user_library/", userLibrary.Page)
	protected.GET("/user_library_filter/", userLibrary.FilterPartial)

	protected.GET("/statistic/", statistics.Page)
	protected.GET("/statistic/genres/", statistics.GenresPage)
	protected.GET("/statistic/fig_genres/", statistics.GenresChartPartial)
	protected.GET("/statistic/authors/", statistics.AuthorsPage)
	protected.GET("/statistic/books_read/", statistics.BooksReadPage)
	protected.GET("/statistic/general/", statistics.GeneralPage)

	return router
}
