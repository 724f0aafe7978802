package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CharGoon26/dwdex-battles/internal/api"
	"github.com/CharGoon26/dwdex-battles/internal/arena"
	"github.com/CharGoon26/dwdex-battles/internal/constants"
	"github.com/CharGoon26/dwdex-battles/internal/cooldown"
	"github.com/CharGoon26/dwdex-battles/internal/logging"
	"github.com/CharGoon26/dwdex-battles/internal/rewards"
	"github.com/CharGoon26/dwdex-battles/internal/storage"
)

func main() {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./dwdex_config.yaml"
	}
	cfg := loadConfigOrExit(configPath)

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/dwdex.db"
	}
	repo := createRepositoryOrExit(dbPath)
	catalog := buildCatalogOrExit(cfg.Units)

	// Matches started by the handler abandon cleanly on shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := arena.NewRegistry()
	cooldowns := cooldown.NewTracker(cfg.Cooldown)
	rewardSvc := rewards.NewService(repo, catalog, rewards.Options{
		WinThreshold:          cfg.RewardWinThreshold,
		RarityPercentile:      cfg.RewardRarityPercentile,
		MaxAttackBonusPercent: cfg.MaxAttackBonusPercent,
		MaxHealthBonusPercent: cfg.MaxHealthBonusPercent,
		BonusWeekday:          time.Weekday(cfg.BonusWeekday),
		StarterSetSize:        cfg.StarterSetSize,
	})
	hub := api.NewHub()
	handler := api.NewHandler(ctx, repo, registry, catalog, rewardSvc, cooldowns, hub, cfg)

	startSweeper(ctx, registry, cooldowns)

	router := gin.Default()
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.POST(constants.RouteRegister, handler.Register)
		apiRoutes.GET(constants.RouteCatalog, handler.ListCatalog)

		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.GET(constants.RouteInventory, handler.GetInventory)
		protected.POST(constants.RouteRewardRedeem, handler.RedeemReward)
		protected.POST(constants.RouteBonusClaim, handler.ClaimBonus)

		protected.POST(constants.RouteChallenges, handler.CreateChallenge)
		protected.DELETE(constants.RouteChallenges, handler.CancelChallenge)
		protected.POST(constants.RouteAccept, handler.AcceptChallenge)
		protected.POST(constants.RouteTeamAdd, handler.AddTeamUnit)
		protected.POST(constants.RouteTeamRemove, handler.RemoveTeamUnit)
		protected.POST(constants.RouteTeamBest, handler.FillBestTeam)
		protected.POST(constants.RouteReady, handler.Ready)
		protected.POST(constants.RouteMove, handler.SubmitMove)
		protected.GET(constants.RouteChallengeView, handler.GetBattle)
		protected.GET(constants.RouteFeed, handler.Feed)
	}

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

// startSweeper expires stale challenge setups and prunes elapsed cooldowns.
func startSweeper(ctx context.Context, registry *arena.Registry, cooldowns *cooldown.Tracker) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				for _, channelID := range registry.SweepExpired(now) {
					logging.Info("challenge expired", logging.Fields{constants.LogFieldChannelID: channelID})
				}
				cooldowns.Sweep()
			}
		}
	}()
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
