// Package router sets up all HTTP routes and middleware chains for the
// Design Camp API. It organizes routes into the public generator
// functions, the camper API and the admin area, each with its own
// middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"designcamp/internal/handlers"
	"designcamp/internal/middleware"
)

// functionHeaders are the request headers browser clients of the
// generator functions send.
var functionHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// Handlers are the handler groups served by the router.
type Handlers struct {
	Auth        *handlers.Auth
	Challenges  *handlers.Challenges
	Functions   *handlers.Functions
	CampTrack   *handlers.CampTrack
	Chat        *handlers.Chat
	ChatSocket  http.Handler
	Leaderboard *handlers.Leaderboard
	Newsletter  *handlers.Newsletter
	Admin       *handlers.Admin
}

// Options configure the shared middleware.
type Options struct {
	Sessions middleware.SessionGetter
	Tokens   middleware.TokenValidator

	// CORSOrigins are the browser origins allowed on /api and /admin.
	CORSOrigins []string

	// Per-IP limiters. A nil limiter disables limiting for its routes.
	GenerateLimiter *middleware.RateLimiter
	AuthLimiter     *middleware.RateLimiter
	ChatLimiter     *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(opts.Sessions, opts.Tokens))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Generator functions are public and callable from any origin.
	r.Route("/functions", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: functionHeaders,
		}).Handler)
		r.Use(limit(opts.GenerateLimiter))

		r.Post("/generate-challenge", h.Functions.GenerateChallenge)
		r.Post("/generate-project", h.Functions.GenerateProject)
	})

	siteCORS := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler

	r.Route("/api", func(r chi.Router) {
		r.Use(siteCORS)

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", h.Challenges.Archive)
			r.Get("/today", h.Challenges.Today)
			r.Get("/{id}", h.Challenges.Detail)
			r.Get("/{id}/submissions", h.Challenges.ListSubmissions)
			r.With(middleware.RequireAuth).Post("/{id}/submissions", h.Challenges.Submit)
		})
		r.Get("/submissions", h.Challenges.Gallery)

		r.Get("/camp-track/options", h.CampTrack.Options)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/camp-track", h.CampTrack.Get)
			r.Put("/camp-track", h.CampTrack.Put)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", h.Chat.History)
			r.With(middleware.RequireAuth, limit(opts.ChatLimiter)).Post("/messages", h.Chat.Post)
			if h.ChatSocket != nil {
				r.Handle("/ws", h.ChatSocket)
			}
		})

		r.Get("/leaderboard", h.Leaderboard.List)
		r.Post("/newsletter", h.Newsletter.Subscribe)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limit(opts.AuthLimiter))
				r.Post("/signup", h.Auth.Signup)
				r.Post("/login", h.Auth.Login)
				r.Post("/logout", h.Auth.Logout)
			})

			// 2FA requires auth but NOT completed 2FA.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				r.Post("/2fa/setup", h.Auth.TwoFASetup)
				r.Post("/2fa/verify", h.Auth.TwoFAVerify)
			})
		})
	})

	// Authenticated + 2FA-verified admin area.
	r.Route("/admin", func(r chi.Router) {
		r.Use(siteCORS)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.Require2FA)
		r.Use(middleware.RequireAdmin)
		r.Use(middleware.CSRF)

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", h.Admin.ChallengeList)
			r.Post("/", h.Admin.ChallengeCreate)
			r.Delete("/{id}", h.Admin.ChallengeDelete)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.Admin.TemplateList)
			r.Post("/", h.Admin.TemplateCreate)
			r.Delete("/{id}", h.Admin.TemplateDelete)
		})

		r.Get("/subscribers", h.Admin.Subscribers)

		r.Get("/ai", h.Admin.AIProvider)
		r.Put("/ai", h.Admin.AISetProvider)
	})

	return r
}

// limit returns rl's middleware, or a pass-through when rl is nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
