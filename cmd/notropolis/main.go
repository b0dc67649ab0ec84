package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bakerboysgame/notropolis-client/internal/api"
	"github.com/bakerboysgame/notropolis-client/internal/app"
	"github.com/bakerboysgame/notropolis-client/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger(cfg)

	client, err := api.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("api client init")
	}

	ebiten.SetWindowTitle("Notropolis")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app.New(cfg, logger, client)); err != nil {
		logger.Fatal(err)
	}
}
