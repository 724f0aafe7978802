package api

import (
	"context"

	"github.com/CharGoon26/dwdex-battles/internal/arena"
	"github.com/CharGoon26/dwdex-battles/internal/config"
	"github.com/CharGoon26/dwdex-battles/internal/cooldown"
	"github.com/CharGoon26/dwdex-battles/internal/rewards"
	"github.com/CharGoon26/dwdex-battles/internal/roster"
	"github.com/CharGoon26/dwdex-battles/internal/storage"
)

// Handler groups all HTTP handlers and their collaborators.
type Handler struct {
	ctx       context.Context
	repo      storage.Repository
	registry  *arena.Registry
	catalog   *roster.Catalog
	rewards   *rewards.Service
	cooldowns *cooldown.Tracker
	hub       *Hub
	cfg       *config.Config
}

// NewHandler wires the handler set. ctx bounds the lifetime of matches
// started by this handler; cancelling it abandons running battles.
func NewHandler(ctx context.Context, repo storage.Repository, registry *arena.Registry, catalog *roster.Catalog, rewardSvc *rewards.Service, cooldowns *cooldown.Tracker, hub *Hub, cfg *config.Config) *Handler {
	return &Handler{
		ctx:       ctx,
		repo:      repo,
		registry:  registry,
		catalog:   catalog,
		rewards:   rewardSvc,
		cooldowns: cooldowns,
		hub:       hub,
		cfg:       cfg,
	}
}
