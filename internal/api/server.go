package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/limbo/atomic/internal/service"
)

type Server struct {
	mx                *chi.Mux
	profileService    service.ProfileServiceI
	identitiesService service.IdentitiesServiceI
	habitsService     service.HabitsServiceI
	scorecardService  service.ScorecardServiceI
	reviewService     service.ReviewServiceI
	jwtService        JWTServiceI
}

type ServicesList struct {
	ProfileService    service.ProfileServiceI
	IdentitiesService service.IdentitiesServiceI
	HabitsService     service.HabitsServiceI
	ScorecardService  service.ScorecardServiceI
	ReviewService     service.ReviewServiceI
	JwtService        JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                chi.NewMux(),
		profileService:    servicesOptions.ProfileService,
		identitiesService: servicesOptions.IdentitiesService,
		habitsService:     servicesOptions.HabitsService,
		scorecardService:  servicesOptions.ScorecardService,
		reviewService:     servicesOptions.ReviewService,
		jwtService:        servicesOptions.JwtService,
	}
}

func (s *Server) Run(address string) error {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/profile", s.GetProfile)
			r.Patch("/profile", s.UpdateProfile)
			r.Delete("/profile", s.DeleteProfile)
			r.Route("/identities", func(r chi.Router) {
				r.Post("/", s.CreateIdentity)
				r.Get("/", s.GetIdentities)
				r.Patch("/{id}", s.UpdateIdentity)
				r.Delete("/{id}", s.DeleteIdentity)
				r.Put("/{id}/blocker", s.SaveBlocker)
				r.Delete("/{id}/blocker", s.DeleteBlocker)
			})
			r.Route("/habits", func(r chi.Router) {
				r.Post("/", s.CreateHabit)
				r.Get("/", s.GetHabits)
				r.Get("/{id}", s.GetHabit)
				r.Patch("/{id}", s.UpdateHabit)
				r.Post("/{id}/archive", s.ArchiveHabit)
				r.Post("/{id}/restore", s.RestoreHabit)
				r.Post("/{id}/complete", s.CompleteHabit)
				r.Post("/{id}/reset", s.ResetHabit)
				r.Delete("/{id}", s.DeleteHabit)
			})
			r.Route("/scorecard", func(r chi.Router) {
				r.Post("/", s.AddScorecardEntry)
				r.Get("/", s.GetScorecard)
				r.Patch("/{id}", s.UpdateScorecardEntry)
				r.Post("/{id}/reorder", s.ReorderScorecardEntry)
				r.Delete("/{id}", s.DeleteScorecardEntry)
			})
			r.Route("/review/week", func(r chi.Router) {
				r.Get("/", s.GetReviewWeek)
				r.Put("/ratings/{habitID}", s.RateHabit)
				r.Post("/ratings/{habitID}/apply", s.ApplyAdvice)
			})
			r.Post("/onboarding", s.Onboarding)
		})
	})
	return http.ListenAndServe(address, s.mx)
}
