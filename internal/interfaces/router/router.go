package router

import (
	"context"
	"errors"

	analyticssvc "propertyhub-backend/internal/application/analytics"
	appsvc "propertyhub-backend/internal/application/applications"
	authsvc "propertyhub-backend/internal/application/auth"
	"propertyhub-backend/internal/application/emails"
	favsvc "propertyhub-backend/internal/application/favorites"
	listsvc "propertyhub-backend/internal/application/listings"
	uploadsvc "propertyhub-backend/internal/application/uploads"
	usersvc "propertyhub-backend/internal/application/user"
	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/infrastructure/database"
	"propertyhub-backend/internal/infrastructure/storage"
	analyticshandler "propertyhub-backend/internal/interfaces/handlers/analytics"
	apphandler "propertyhub-backend/internal/interfaces/handlers/applications"
	authhandler "propertyhub-backend/internal/interfaces/handlers/auth"
	favhandler "propertyhub-backend/internal/interfaces/handlers/favorites"
	healthhandler "propertyhub-backend/internal/interfaces/handlers/health"
	listhandler "propertyhub-backend/internal/interfaces/handlers/listings"
	uploadhandler "propertyhub-backend/internal/interfaces/handlers/uploads"
	userhandler "propertyhub-backend/internal/interfaces/handlers/user"
	"propertyhub-backend/internal/middleware"
	"propertyhub-backend/internal/pkg/constants"
	"propertyhub-backend/internal/platform/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the shared clients the routes are built on.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Rdb     *redis.Client
	Storage storage.Storage
	Metrics *metrics.Manager
	Emails  emails.Sender // nil disables notifications
}

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) PingContext(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateApp opens the store, Redis and object storage from cfg and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil, errors.New("DATABASE_URL is not set")
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	d := Deps{
		Config:  cfg,
		DB:      db,
		Rdb:     rdb,
		Storage: store,
		Metrics: metrics.NewManager("propertyhub"),
	}
	if cfg.BrevoAPIKey != "" {
		d.Emails = &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}
	}
	return New(d), db, rdb, nil
}

// New wires middleware and routes over already-connected dependencies.
func New(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               cfg.BodyLimitMB * 1024 * 1024,
	})

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Metrics(d.Metrics))
	app.Use(middleware.HealthMarker(d.Rdb))
	app.Use(middleware.SessionWithClient(d.Rdb))
	app.Use(middleware.Bearer(cfg.JWTSecret))

	hh := &healthhandler.Handlers{
		Rdb:            d.Rdb,
		DB:             &gormDBPinger{db: d.DB},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Auth
	ah := &authhandler.Handlers{
		Auth:   &authsvc.Service{DB: d.DB},
		Rdb:    d.Rdb,
		Config: sessionCfg,
	}
	uh := &userhandler.Handlers{Service: &usersvc.Service{DB: d.DB, Emails: d.Emails}}
	ag := api.Group("/auth")
	ag.Post("/signup", uh.Signup)
	ag.Post("/login", ah.Login)
	ag.Get("/me", ah.Me)
	ag.Delete("/logout", ah.Logout)

	// Users
	api.Get("/users", uh.List)
	api.Get("/users/me", middleware.RequireAuth(), uh.ViewUser)

	// Properties; static paths are registered before /:id
	an := &analyticssvc.Service{DB: d.DB, Metrics: d.Metrics}
	lh := &listhandler.Handlers{
		Service:   &listsvc.Service{DB: d.DB, Storage: d.Storage, Metrics: d.Metrics},
		Analytics: an,
	}
	pg := api.Group("/properties")
	pg.Get("/", lh.List)
	pg.Post("/", lh.Create)
	pg.Get("/bulk-listings", lh.BulkListings)
	pg.Put("/bulk-update", middleware.AuthorizePermission(constants.BulkEdit), lh.BulkUpdate)
	pg.Post("/images", lh.AttachImages)
	pg.Delete("/images", lh.DetachImage)
	pg.Get("/:id", lh.Detail)
	pg.Put("/:id", lh.Update)
	pg.Delete("/:id", lh.Delete)
	pg.Get("/:id/events", lh.Events)

	// Dashboard
	dh := &analyticshandler.Handlers{Service: an}
	api.Get("/dashboard/analytics", dh.Dashboard)

	// Favorites
	fh := &favhandler.Handlers{Service: &favsvc.Service{DB: d.DB}}
	api.Get("/favorites", fh.ListMine)
	api.Post("/favorites", fh.Add)
	api.Delete("/favorites", fh.Remove)

	// Applications
	aph := &apphandler.Handlers{Service: &appsvc.Service{DB: d.DB, Emails: d.Emails}}
	api.Get("/applications", aph.ListMine)
	api.Post("/applications", aph.Create)

	// Uploads
	uph := &uploadhandler.Handlers{Service: &uploadsvc.Service{Storage: d.Storage}}
	api.Post("/uploads/listing-image", middleware.AuthorizePermission(constants.SignUploads), uph.ListingImage)

	return app
}
