// @title Atomic API
// @description API for the identity-based habit builder "Atomic"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/limbo/atomic/internal/api"
	"github.com/limbo/atomic/internal/repository"
	"github.com/limbo/atomic/internal/service"
	"github.com/limbo/atomic/pkg/cleanup"
	"github.com/limbo/atomic/pkg/config"
	jwtservice "github.com/limbo/atomic/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	profileService := service.NewProfileService(repository.NewProfilesRepo(&dbCfg))
	identitiesService := service.NewIdentitiesService(
		repository.NewIdentitiesRepo(&dbCfg),
		habitsRepo,
		repository.NewBlockersRepo(&dbCfg),
	)
	habitsService := service.NewHabitsService(habitsRepo)
	scorecardService := service.NewScorecardService(repository.NewScorecardRepo(&dbCfg))
	reviewService := service.NewReviewService(repository.NewReviewRepo(&dbCfg), habitsRepo)
	serv := api.New(&api.ServicesList{
		ProfileService:    profileService,
		IdentitiesService: identitiesService,
		HabitsService:     habitsService,
		ScorecardService:  scorecardService,
		ReviewService:     reviewService,
		JwtService:        jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
