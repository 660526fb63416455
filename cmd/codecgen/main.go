package main

import (
	"bytes"
	"fmt"
	"os"
	"reflect"

	"github.com/danmuck/hotsync/internal/logging"
	"github.com/danmuck/hotsync/internal/protocol/codecgen"
	"github.com/danmuck/hotsync/internal/protocol/dlp"
	"github.com/danmuck/hotsync/internal/protocol/schema"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// packages maps a generation target to its package clause and types.
var packages = map[string]struct {
	name  string
	types func() []reflect.Type
}{
	"dlp": {name: "dlp", types: dlp.GeneratedTypes},
}

func main() {
	logging.ConfigureRuntime()

	root := &cobra.Command{
		Use:   "codecgen",
		Short: "Generate binary codec methods from struct schemas",
		Long: `codecgen emits SizeBinary, WriteBinary and ReadBinary methods for message
types declared with binary struct tags. The generated methods follow the
same schema the runtime interpreter walks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(generateCmd(), listCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("codecgen failed")
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		target string
		output string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the generated codec file for a package",
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, ok := packages[target]
			if !ok {
				return fmt.Errorf("unknown package %q", target)
			}
			src, err := codecgen.Generate(codecgen.Options{Package: pkg.name}, pkg.types()...)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(src)
				return err
			}
			if check {
				have, err := os.ReadFile(output)
				if err != nil {
					return err
				}
				if !bytes.Equal(have, src) {
					return fmt.Errorf("%s is out of date", output)
				}
				log.Info().Str("file", output).Msg("generated codec is current")
				return nil
			}
			if err := os.WriteFile(output, src, 0o644); err != nil {
				return err
			}
			log.Info().Str("file", output).Int("types", len(pkg.types())).Msg("wrote generated codec")
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "package", "p", "dlp", "package to generate for")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "fail if the output file differs instead of writing it")
	return cmd
}

func listCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the derived schema of each generated type",
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, ok := packages[target]
			if !ok {
				return fmt.Errorf("unknown package %q", target)
			}
			out := cmd.OutOrStdout()
			for _, t := range pkg.types() {
				s, err := schema.For(t)
				if err != nil {
					return err
				}
				size := "variable"
				if n, ok := s.FixedSize(); ok {
					size = fmt.Sprint(n)
				}
				fmt.Fprintf(out, "%s endian=%s size=%s\n", s.Name(), s.Endian, size)
				for _, f := range s.Fields {
					fmt.Fprintf(out, "  %-16s %s\n", f.Name, describe(s, &f))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "package", "p", "dlp", "package to list")
	return cmd
}

func describe(s *schema.Schema, f *schema.Field) string {
	desc := f.Kind.String()
	switch f.Kind {
	case schema.KindUint, schema.KindInt:
		desc = fmt.Sprintf("%s%d %s", desc, f.Width*8, f.Endian)
	case schema.KindStruct:
		desc += " " + f.Nested.Name()
	case schema.KindFixedString:
		desc = fmt.Sprintf("%s[%d]", desc, f.Size)
	case schema.KindArray:
		switch f.Count.Kind {
		case schema.CountField:
			desc += " len=" + s.Fields[f.Count.Field].Name
		case schema.CountRest:
			desc += " len=rest"
		default:
			desc += fmt.Sprintf(" len=%d", f.Count.N)
		}
		desc += " of " + f.Elem.Kind.String()
	}
	if f.Cond >= 0 {
		desc += " if=" + s.Fields[f.Cond].Name
	}
	return desc
}
