package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/queridometro/internal/core/ports"
)

type Handlers struct {
	Auth    *AuthHandler
	Ballots *BallotHandler
	Results *ResultsHandler
	Tokens  ports.TokenService
}

func NewHandler(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/roster", h.Results.Roster)
		r.Get("/results", h.Results.Results)

		r.Post("/login", h.Auth.Login)
		r.Post("/enroll", h.Auth.Enroll)
		r.Post("/logout", h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Tokens))
			r.Get("/eligibility", h.Ballots.Eligibility)
			r.Post("/ballots", h.Ballots.SubmitBallot)
		})
	})

	return r
}
