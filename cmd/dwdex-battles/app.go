package main

import (
	"github.com/CharGoon26/dwdex-battles/internal/config"
	"github.com/CharGoon26/dwdex-battles/internal/logging"
	"github.com/CharGoon26/dwdex-battles/internal/roster"
)

func loadConfigOrExit(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func buildCatalogOrExit(units []roster.Template) *roster.Catalog {
	catalog, err := roster.NewCatalog(units)
	if err != nil {
		logging.Fatal("Invalid unit list", err, nil)
	}
	return catalog
}
