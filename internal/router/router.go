package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	authctrl "challengehub/internal/handlers/api/v1/auth"
	badgectrl "challengehub/internal/handlers/api/v1/badges"
	missionctrl "challengehub/internal/handlers/api/v1/missions"
	opinionctrl "challengehub/internal/handlers/api/v1/opinions"
	userctrl "challengehub/internal/handlers/api/v1/users"
	"challengehub/internal/middleware"
	"challengehub/internal/response"
	"challengehub/internal/services"
)

// Dependencies carries everything the router needs.
type Dependencies struct {
	Services  *services.Collection
	JWTSecret string
	Logger    *zap.Logger
	Health    func(r *http.Request) error
}

// New builds the route table.
func New(deps Dependencies) http.Handler {
	validate := validator.New()

	users := userctrl.NewController(deps.Services.Users, validate, deps.Logger)
	auth := authctrl.NewController(deps.Services.Auth, validate, deps.Logger)
	missions := missionctrl.NewController(deps.Services.Missions, deps.Services.AI, validate, deps.Logger)
	opinions := opinionctrl.NewController(deps.Services.Opinions, validate, deps.Logger)
	badges := badgectrl.NewController(deps.Services.Badges, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(req); err != nil {
				response.Error(w, req, services.NewServiceUnavailableError("service not ready"))
				return
			}
		}
		response.OK(w, req, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", users.Signup)
		r.Get("/users/check", users.CheckUsername)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", auth.Login)
			r.Post("/refresh", auth.Refresh)
			r.Post("/logout", auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWTSecret))

			r.Route("/missions", func(r chi.Router) {
				r.Post("/", missions.Create)
				r.Get("/", missions.ListMine)
				r.Get("/public", missions.ListPublic)
				r.Get("/completed", missions.ListCompleted)
				r.Post("/ai", missions.Suggest)
				r.Patch("/{missionID}", missions.Complete)

				r.Post("/{missionID}/opinions", opinions.Create)
				r.Get("/{missionID}/opinions", opinions.ListByMission)
			})

			r.Route("/badges", func(r chi.Router) {
				r.Get("/", badges.ListOwned)
				r.Get("/progress", badges.ListProgress)
			})
		})
	})

	return r
}
