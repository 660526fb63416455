package main

import (
	"flag"

	"github.com/danmuck/hotsync/internal/config"
	"github.com/danmuck/hotsync/internal/logging"
	"github.com/rs/zerolog/log"
)

const defaultPath = "hotsync.toml"

func main() {
	logging.ConfigureRuntime()

	output := flag.String("output", defaultPath, "output path for config template (.toml, .yaml or .yml)")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal().Err(err).Msg("validate config")
		}
		log.Info().
			Str("path", *input).
			Str("device", cfg.Serial.Device).
			Int("baud", cfg.Serial.Baud).
			Msg("validated config")
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal().Err(err).Msg("write config template")
	}
	log.Info().Str("path", *output).Msg("wrote config template")
}
