package main

import (
	"io"
	"os"

	"github.com/danmuck/hotsync/internal/protocol/slp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func decodeCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "decode [capture]",
		Short: "Decode packets from a raw capture (.zst and .lz4 are decompressed)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			in, err := openCapture(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			rw, err := newRecordWriter(format, out)
			if err != nil {
				return err
			}

			n, err := decodeStream(in, rw)
			log.Info().Str("capture", path).Int("packets", n).Err(err).Msg("slpdump decode finished")
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or cbor")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// decodeStream writes a record for every packet in r. Packets before a
// framing failure are still written.
func decodeStream(r io.Reader, rw recordWriter) (int, error) {
	var count int
	err := slp.NewReader(r, 0).ReadAll(func(p slp.Packet) error {
		count++
		return rw.WriteRecord(newRecord(count, p))
	})
	if ferr := rw.Flush(); err == nil {
		err = ferr
	}
	return count, err
}
