package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/dshills/charlimit/internal/charlimit"
	"github.com/dshills/charlimit/internal/config"
	"github.com/dshills/charlimit/internal/docio"
	"github.com/dshills/charlimit/internal/doctree"
	"github.com/dshills/charlimit/internal/logging"
	"github.com/dshills/charlimit/internal/measure"
	"github.com/dshills/charlimit/internal/script"
)

// errOverLimit is returned by check when the document exceeds the budget.
var errOverLimit = errors.New("document exceeds the character budget")

type checkFlags struct {
	max          int
	measure      string
	segmentation string
	script       string
	text         string
	json         bool
	color        string
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "check [flags] [FILE]",
		Short: "Mark the over-budget part of a document",
		Long: `check reads a document, marks the text beyond the budget and prints the
result with the remaining character count.

FILE may be editor-state JSON (.json) or plain text. Without FILE or --text
the document is read from standard input. The exit status is 2 when the
document is over budget.`,
		Example: `  charlimit check --max 280 --text "$(cat draft.txt)"
  charlimit check -c limit.toml post.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(g, cmd.Flags(), &f)
			if err != nil {
				return err
			}
			input, err := readInput(cmd.InOrStdin(), args, f.text)
			if err != nil {
				return err
			}
			return check(cmd.OutOrStdout(), cfg, input, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.max, "max", "m", 0, "Character budget")
	fl.StringVar(&f.measure, "measure", "", "Length measure: "+strings.Join(measure.Names(), ", "))
	fl.StringVar(&f.segmentation, "segmentation", "", "Boundary segmentation: grapheme, codepoint")
	fl.StringVar(&f.script, "strlen-script", "", "Lua file defining strlen(s)")
	fl.StringVarP(&f.text, "text", "t", "", "Check this text instead of a file")
	fl.BoolVar(&f.json, "json", false, "Print the resulting editor state as JSON")
	fl.StringVar(&f.color, "color", "auto", "Style overflow: auto, always, never")
	return cmd
}

// resolveConfig layers explicitly set flags over the loaded configuration.
func resolveConfig(g *globalFlags, fl *pflag.FlagSet, f *checkFlags) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if fl.Changed("max") {
		cfg.MaxCharacters = f.max
	}
	if fl.Changed("measure") {
		cfg.Measure = f.measure
		cfg.StrlenScript = ""
	}
	if fl.Changed("segmentation") {
		cfg.Segmentation = f.segmentation
	}
	if fl.Changed("strlen-script") {
		cfg.StrlenScript = f.script
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, cfg.Validate()
}

type input struct {
	data []byte
	json bool
}

func readInput(stdin io.Reader, args []string, text string) (input, error) {
	switch {
	case text != "":
		return input{data: []byte(text)}, nil
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return input{}, err
		}
		return input{data: data, json: strings.EqualFold(filepath.Ext(args[0]), ".json")}, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, fmt.Errorf("reading stdin: %w", err)
		}
		return input{data: data}, nil
	}
}

// check enforces cfg on the document in in and writes the result to out.
func check(out io.Writer, cfg config.Config, in input, f checkFlags) error {
	zl := logging.New(cfg.Logging()).WithComponent("charlimit")
	defer func() { _ = zl.Sync() }()

	strlen, closeStrlen, err := buildStrlen(cfg, zl)
	if err != nil {
		return err
	}
	defer closeStrlen()
	seg, err := cfg.Segmenter()
	if err != nil {
		return err
	}

	ed := doctree.New(doctree.WithNodes(doctree.KindOverflow), doctree.WithLogger(zl))
	if in.json {
		err = docio.Import(ed, in.data)
	} else {
		err = docio.FromText(ed, strings.TrimSuffix(string(in.data), "\n"))
	}
	if err != nil {
		return err
	}

	remaining := cfg.MaxCharacters
	dispose, err := charlimit.Register(ed, cfg.MaxCharacters,
		charlimit.WithStrlen(strlen),
		charlimit.WithSegmenter(seg),
		charlimit.WithRemainingCallback(func(r int) { remaining = r }),
		charlimit.WithLogger(zl),
	)
	if err != nil {
		return err
	}
	defer dispose()

	if f.json {
		data, err := docio.Export(ed, docio.WithIndent())
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	} else {
		r := newRenderer(useColor(f.color, out))
		fmt.Fprintln(out, r.Document(ed))
		fmt.Fprintln(out, r.Remaining(remaining, cfg.MaxCharacters))
	}

	if remaining < 0 {
		return errOverLimit
	}
	return nil
}

// buildStrlen returns the configured measure and a function releasing it.
func buildStrlen(cfg config.Config, l logging.Logger) (measure.Func, func(), error) {
	if cfg.StrlenScript == "" {
		fn, err := measure.ByName(cfg.Measure)
		return fn, func() {}, err
	}
	s, err := script.LoadFile(cfg.StrlenScript, script.WithLogger(l))
	if err != nil {
		return nil, nil, err
	}
	return s.Func(), s.Close, nil
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
