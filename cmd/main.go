// Package main is the entry point for the pokebay planning service.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/adamistheanswer/pokebay/config"
	"github.com/adamistheanswer/pokebay/internal/app"
)

func main() {
	cfg := config.Load()

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server.Port)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
