package main

import (
	"flag"
	"os"
	"time"

	"github.com/Garsondee/Raider-Sense/internal/config"
	"github.com/Garsondee/Raider-Sense/internal/game"
	"github.com/Garsondee/Raider-Sense/internal/sfx"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var configPath string
	var seed int64
	var mute bool
	var debug bool

	flag.StringVar(&configPath, "config", "", "YAML tuning file (defaults built in)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (default: config seed, else time based)")
	flag.BoolVar(&mute, "mute", false, "disable sound")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config")
		}
	}
	seed = pickSeed(seed, flagWasSet(flag.CommandLine, "seed"), cfg, configPath != "", time.Now())

	sound := sfx.Silent()
	if !mute {
		sound = sfx.New(log.Logger)
	}

	g := game.New(
		game.WithConfig(cfg),
		game.WithSeed(seed),
		game.WithLogger(log.Logger),
		game.WithSound(sound),
	)
	log.Info().Int64("seed", seed).Bool("sound", sound.Enabled()).Msg("starting")

	ebiten.SetWindowTitle("Raider Sense")
	ebiten.SetWindowSize(g.WindowSize())
	if err := play(g, sound, ebiten.RunGame); err != nil {
		log.Error().Err(err).Msg("game exited")
		os.Exit(1)
	}
}

// pickSeed prefers an explicit -seed, then the seed of a loaded config
// file, then the clock. A zero seed at any level counts as unset.
func pickSeed(flagSeed int64, explicit bool, cfg config.Config, fromFile bool, now time.Time) int64 {
	if explicit && flagSeed != 0 {
		return flagSeed
	}
	if !explicit && fromFile && cfg.Seed != 0 {
		return cfg.Seed
	}
	return now.UnixNano()
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

type closer interface {
	Close()
}

// play runs the game loop and releases the audio device however it ends.
func play(g ebiten.Game, sound closer, run func(ebiten.Game) error) error {
	defer sound.Close()
	return run(g)
}
