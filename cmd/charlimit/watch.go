package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/charlimit/internal/config"
	"github.com/dshills/charlimit/internal/logging"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "watch --config FILE [flags] DOCUMENT",
		Short: "Re-check a document whenever the config file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.configPath == "" {
				return errors.New("watch requires --config")
			}
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			runOnce := func(cfg config.Config) {
				in, err := readInput(nil, args, "")
				if err == nil {
					err = check(out, cfg, in, f)
				}
				report(errOut, err)
			}

			cfg, err := resolveConfig(g, cmd.Flags(), &f)
			if err != nil {
				return err
			}
			runOnce(cfg)

			logger := logging.New(cfg.Logging()).WithComponent("watch")
			return config.Watch(cmd.Context(), g.configPath, func(_ config.Config, err error) {
				if err == nil {
					// Flags still take precedence over the reloaded file.
					cfg, err = resolveConfig(g, cmd.Flags(), &f)
				}
				if err != nil {
					report(errOut, err)
					return
				}
				fmt.Fprintln(out)
				runOnce(cfg)
			}, config.WithWatchLogger(logger))
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.max, "max", "m", 0, "Character budget")
	fl.StringVar(&f.segmentation, "segmentation", "", "Boundary segmentation: grapheme, codepoint")
	fl.StringVar(&f.color, "color", "auto", "Style overflow: auto, always, never")
	return cmd
}

func report(w io.Writer, err error) {
	switch {
	case err == nil:
	case errors.Is(err, errOverLimit):
		fmt.Fprintln(w, err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
