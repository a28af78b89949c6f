package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/swingkit/levels"
	"github.com/milk9111/swingkit/logging"
	"github.com/milk9111/swingkit/prefabs"
	"github.com/milk9111/swingkit/sim"
	"go.uber.org/zap"
)

func main() {
	levelName := flag.String("level", levels.DefaultLevel, "level name in levels/ (basename, .json optional)")
	playerFile := flag.String("player", prefabs.PlayerFile, "player tunables file in prefabs/")
	model := flag.String("model", "", "override the grapple model (constraint or pull)")
	debug := flag.Bool("debug", true, "draw the physics overlay")
	watch := flag.Bool("watch", true, "reload tunables when prefab files change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger, err := logging.New(logging.ConfigFromEnv())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	lvl, err := levels.LoadLevelFromFS(*levelName)
	if err != nil {
		logger.Fatal("load level", zap.Error(err))
	}
	spec, err := prefabs.LoadPlayerSpecFile(*playerFile)
	if err != nil {
		logger.Fatal("load player", zap.Error(err))
	}
	if *model != "" {
		spec.Grapple.Model = *model
	}

	s, err := sim.New(lvl, *spec, sim.WithLogger(logger), sim.WithTickRate(sim.DefaultTickRate))
	if err != nil {
		logger.Fatal("create simulation", zap.Error(err))
	}

	game := NewGame(s, *playerFile, *debug, logger)
	if *watch {
		if err := game.Watch(prefabs.DiskDir); err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		}
	}
	defer game.Close()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("swingkit sandbox")
	ebiten.SetTPS(frameRate)

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
