package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emdvi/bridge/ebiten"
	"github.com/user-none/emdvi/cli"
	"github.com/user-none/emdvi/dvi"
)

func main() {
	imagePath := flag.String("image", "", "path to an image to display (optional)")
	patternName := flag.String("pattern", "", "initial pattern: bars, ramp, checker, card or image")
	verbose := flag.Bool("v", false, "log signal statistics")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var imageData []byte
	if *imagePath != "" {
		data, err := os.ReadFile(*imagePath)
		if err != nil {
			log.Fatalf("Failed to load image: %v", err)
		}
		imageData = data
	}

	p := dvi.DVI640x480
	e, err := emubridge.NewEmulator(p, imageData, logger)
	if err != nil {
		log.Fatalf("Failed to initialize monitor: %v", err)
	}

	if *patternName != "" {
		if err := e.SetPattern(*patternName); err != nil {
			log.Fatal(err)
		}
	}

	ebiten.SetWindowSize(p.HActive, p.VActive)
	ebiten.SetWindowTitle(dvi.Name + " " + p.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(320, 240, -1, -1)
	ebiten.SetTPS(p.FPS)

	runner := cli.NewRunner(e, p, logger)
	defer e.Close()
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
