// Command skindepth evaluates constant-conductivity and Drude skin depths over
// a log-spaced frequency sweep and writes the comparison plot and data files.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RMahshie/lumen/internal/skindepth"
)

type options struct {
	constants skindepth.Constants
	sweep     skindepth.Sweep
	out       string
	format    string
	csvPath   string
	jsonPath  string
	summary   bool
	verbose   bool
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{
		constants: skindepth.DefaultConstants(),
		sweep:     skindepth.DefaultSweep(),
	}

	cmd := &cobra.Command{
		Use:   "skindepth",
		Short: "Compare constant-conductivity and Drude skin depths",
		Long: `Evaluates the skin depth of a conductor over a log-spaced angular frequency
sweep, once with a constant conductivity and once with the Drude model, and
renders both curves on log-log axes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return run(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.constants.Kappa0, "kappa0", opts.constants.Kappa0, "DC conductivity in S/m")
	f.Float64Var(&opts.constants.Gamma, "gamma", opts.constants.Gamma, "Drude damping frequency in rad/s")
	f.Float64Var(&opts.constants.Mu, "mu", opts.constants.Mu, "magnetic permeability in H/m")
	f.Float64Var(&opts.sweep.StartDecade, "start-decade", opts.sweep.StartDecade, "log10 of the first angular frequency")
	f.Float64Var(&opts.sweep.EndDecade, "end-decade", opts.sweep.EndDecade, "log10 of the last angular frequency")
	f.IntVar(&opts.sweep.Points, "points", opts.sweep.Points, "number of sweep points")
	f.StringVarP(&opts.out, "out", "o", "skin_depth.png", "plot output file, empty to skip the plot")
	f.StringVar(&opts.format, "format", "", "plot format (png or svg), inferred from --out when empty")
	f.StringVar(&opts.csvPath, "csv", "", "also write the curves as CSV to this file")
	f.StringVar(&opts.jsonPath, "json", "", "also write the curves as JSON to this file")
	f.BoolVar(&opts.summary, "summary", true, "print a YAML summary to stdout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(stdout io.Writer, opts *options) error {
	curves, err := skindepth.Evaluate(opts.constants, opts.sweep)
	if err != nil {
		return err
	}
	log.Debug().Int("points", curves.Len()).Msg("Evaluated sweep")

	if opts.out != "" {
		plotOpts := skindepth.DefaultPlotOptions()
		plotOpts.Format = plotFormat(opts.out, opts.format)
		if plotOpts.Format != skindepth.FormatPNG && plotOpts.Format != skindepth.FormatSVG {
			return fmt.Errorf("unsupported plot format %q", plotOpts.Format)
		}
		if err := writeFile(opts.out, func(w io.Writer) error {
			return skindepth.WritePlot(w, curves, plotOpts)
		}); err != nil {
			return err
		}
		log.Info().Str("file", opts.out).Str("format", plotOpts.Format).Msg("Wrote plot")
	}

	if opts.csvPath != "" {
		if err := writeFile(opts.csvPath, func(w io.Writer) error {
			return skindepth.WriteCSV(w, curves)
		}); err != nil {
			return err
		}
		log.Info().Str("file", opts.csvPath).Msg("Wrote CSV")
	}

	if opts.jsonPath != "" {
		if err := writeFile(opts.jsonPath, func(w io.Writer) error {
			return skindepth.WriteJSON(w, curves)
		}); err != nil {
			return err
		}
		log.Info().Str("file", opts.jsonPath).Msg("Wrote JSON")
	}

	if opts.summary {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(skindepth.Summary(curves)); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		return enc.Close()
	}
	return nil
}

// plotFormat prefers an explicit format, then the output file extension
func plotFormat(out, explicit string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	if strings.EqualFold(filepath.Ext(out), ".svg") {
		return skindepth.FormatSVG
	}
	return skindepth.FormatPNG
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
