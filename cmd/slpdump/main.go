package main

import (
	"context"
	"os"

	"github.com/danmuck/hotsync/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	logging.ConfigureRuntime()

	root := &cobra.Command{
		Use:   "slpdump",
		Short: "Decode and watch serial link protocol traffic",
		Long: `slpdump decodes SLP packets from raw byte captures, or listens on a serial
line, answering loopback packets and printing everything it receives.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(decodeCmd(), listenCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("slpdump failed")
		os.Exit(1)
	}
}
