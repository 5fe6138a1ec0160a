package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/identity"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type Deps struct {
	DB        *gorm.DB
	Jobs      *lifecycle.Service
	Identity  *identity.Service
	Hub       *realtime.Hub
	Limiter   *middleware.RedisLimiter
	Logger    *zap.Logger
	JWTSecret string
	Expires   int

	CookieSecure    bool
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

// Routes mounts the whole HTTP surface on app.
func Routes(app *fiber.App, d Deps) {
	authH := &AuthHandler{
		DB:           d.DB,
		Identity:     d.Identity,
		JWTSecret:    d.JWTSecret,
		Expires:      d.Expires,
		CookieSecure: d.CookieSecure,
		Logger:       d.Logger,
	}
	googleH := &GoogleOAuthHandler{
		Auth:            authH,
		Identity:        d.Identity,
		GoogleClientID:  d.GoogleClientID,
		GoogleSecret:    d.GoogleSecret,
		GoogleRedirect:  d.GoogleRedirect,
		FrontendBaseURL: d.FrontendBaseURL,
	}
	categoryH := NewCategoryHandler(d.Jobs)
	jobH := NewJobHandler(d.Jobs)
	appH := NewApplicationHandler(d.Jobs)
	reviewH := NewReviewHandler(d.Jobs)
	changesH := &ChangesHandler{Hub: d.Hub, Logger: d.Logger}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	authed := []fiber.Handler{
		middleware.JWTFromCookie(d.JWTSecret),
		middleware.AttachSession(d.Identity),
	}
	limited := middleware.RateLimit(d.Limiter)
	poster := middleware.RequireRoles(models.RolePoster)
	seeker := middleware.RequireRoles(models.RoleSeeker)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", limited, authH.Register)
	api.Post("/auth/login", limited, authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/categories", categoryH.GetCategories)
	api.Get("/jobs", jobH.ListPublic)
	api.Get("/jobs/:id", jobH.GetDetail)
	api.Get("/users/:id/reviews", reviewH.List)

	// protected (JWT)
	protected := api.Group("/", authed...)

	protected.Get("/me", authH.Me)
	protected.Post("/me/role", authH.ChooseRole)

	protected.Post("/jobs", poster, limited, jobH.Create)
	protected.Patch("/jobs/:id/complete", poster, jobH.Complete)
	protected.Get("/poster/jobs", poster, jobH.ListMine)

	protected.Post("/jobs/:id/applications", seeker, limited, appH.Apply)
	protected.Get("/seeker/applications", seeker, appH.ListMine)
	protected.Patch("/applications/:id/status", poster, appH.UpdateStatus)

	protected.Post("/users/:id/reviews", limited, reviewH.Create)

	// websocket: token comes from the cookie or ?token=
	ws := append(append([]fiber.Handler{}, authed...), changesH.Upgrade, changesH.Stream())
	app.Get("/ws/changes", ws...)
}
