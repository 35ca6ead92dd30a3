package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"waverider/internal/sim"
)

func main() {
	configDir := flag.String("config", ".", "directory containing waverider.yaml")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *debug {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	settings, warnings, err := sim.LoadSettings(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load settings")
	}
	// Configuration problems are reported once here; the sanitized settings
	// are safe and the run continues.
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	log.Info().
		Int("control_points", len(settings.Track.ControlPoints)).
		Int("waves", len(settings.Waves)).
		Bool("closed", settings.Track.Closed).
		Msg("starting viewer")

	if err := sim.RunDesktop(settings); err != nil {
		log.Fatal().Err(err).Msg("viewer exited")
	}
}
