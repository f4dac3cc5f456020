package main

import (
	"flag"
	"time"

	"github.com/gerardpaapu/bernard/internal/config"
	"github.com/gerardpaapu/bernard/internal/game"
	"github.com/gerardpaapu/bernard/internal/logging"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configDir := flag.String("config", ".", "directory containing bernard.cfg.json")
	flag.Parse()

	logger := logging.Setup("info")
	if err := config.Load(*configDir); err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = logging.Setup(config.GetString("logLevel"))

	gc := config.GetGameConfig()
	if gc.Seed == 0 {
		gc.Seed = time.Now().UnixNano()
	}

	mode := game.ModeTurnBased
	if gc.AutoFire {
		mode = game.ModeAutoFire
	}
	logger.Info().
		Int64("seed", gc.Seed).
		Int("gridW", gc.GridW).
		Int("gridH", gc.GridH).
		Int("tanks", gc.Tanks).
		Stringer("mode", mode).
		Msg("starting match")

	g, err := game.New(game.Config{
		WindowW:      gc.WindowW,
		WindowH:      gc.WindowH,
		FieldW:       gc.GridW,
		FieldH:       gc.GridH,
		Seed:         gc.Seed,
		Tanks:        gc.Tanks,
		AutoFire:     gc.AutoFire,
		Audio:        gc.AudioEnabled,
		ReportWindow: gc.ReportWindow,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create game")
	}

	ebiten.SetWindowTitle("Bernard")
	ebiten.SetWindowSize(gc.WindowW, gc.WindowH)
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal().Err(err).Msg("game loop ended with error")
	}
}
