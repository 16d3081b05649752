// Command autocurve evaluates, converts and renders automation curves stored
// as YAML.
//
// Usage:
//
//	autocurve eval     --curve f.yaml t...
//	autocurve svg      --curve f.yaml [-o out.svg]
//	autocurve png      --curve f.yaml -o out.png
//	autocurve simplify --curve f.yaml [--tolerance px] [-o out.yaml]
//
// All subcommands accept --config to load render, edit and logging settings
// from a YAML file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"honnef.co/go/automation"
	"honnef.co/go/automation/internal/config"
	"honnef.co/go/automation/internal/logging"
	"honnef.co/go/automation/internal/render"
)

// set at build time via -ldflags "-X main.version=..."
var version = "dev"

var errUsage = errors.New("usage: autocurve eval|svg|png|simplify --curve FILE [flags]")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by all subcommands. The persistent flags fill in
// the paths; the root's pre-run hook loads the rest.
type app struct {
	curvePath  string
	configPath string
	outPath    string
	tolerance  float64

	cfg   *config.Config
	log   *logging.Logger
	curve *automation.Automation
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	root := newRootCmd()
	// cobra falls back to os.Args for nil args
	root.SetArgs(append([]string{}, args...))
	root.SetOut(stdout)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "autocurve",
		Short: "Evaluate, render and simplify automation curves",
		Long: `autocurve works on automation curves stored as YAML documents.

It evaluates a curve at given times, renders it as SVG or PNG, and
simplifies it by redrawing it as a freehand stroke.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
		RunE: func(*cobra.Command, []string) error {
			return errUsage
		},
	}
	root.PersistentFlags().StringVar(&a.curvePath, "curve", "",
		"curve `file` (YAML)")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"config `file` (YAML) with render, edit and logging settings")

	root.AddCommand(a.evalCmd(), a.svgCmd(), a.pngCmd(), a.simplifyCmd())
	return root
}

// load resolves the persistent flags into a config, a logger and the curve.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if a.curvePath == "" {
		return fmt.Errorf("--curve is required: %w", errUsage)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Logging, version).With("command", cmd.Name())

	a.curve, err = loadCurve(a.curvePath)
	if err != nil {
		return err
	}
	a.log.Debug("loaded curve",
		"path", a.curvePath,
		"keys", a.curve.Len(),
		"length", a.curve.Length(),
	)
	return nil
}

func (a *app) outputFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVarP(&a.outPath, "output", "o", "", usage)
}

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval TIME...",
		Short: "Print the curve's value at each time",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evalTimes(cmd.Context(), a.curve, args, cmd.OutOrStdout())
		},
	}
}

func (a *app) svgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render the curve as an SVG document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.writeOutput(cmd.OutOrStdout(), func(w io.Writer) error {
				return render.SVG(w, a.curve, render.ViewFor(a.curve, a.cfg.Render), a.cfg.Render)
			})
		},
	}
	a.outputFlag(cmd, "output `file` (default stdout)")
	return cmd
}

func (a *app) pngCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "png",
		Short: "Render the curve as a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.writeOutput(cmd.OutOrStdout(), func(w io.Writer) error {
				return render.PNG(w, a.curve, render.ViewFor(a.curve, a.cfg.Render), a.cfg.Render)
			})
		},
	}
	a.outputFlag(cmd, "output `file`")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) simplifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplify",
		Short: "Redraw the curve as a freehand stroke with fewer keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tol := a.tolerance
			if tol < 0 {
				tol = a.cfg.Edit.Tolerance
			}
			out, err := simplify(cmd.Context(), a.curve, render.ViewFor(a.curve, a.cfg.Render), tol)
			if err != nil {
				return err
			}
			a.log.Info("simplified curve", "keys_before", a.curve.Len(), "keys_after", out.Len(), "tolerance", tol)
			return a.writeOutput(cmd.OutOrStdout(), out.Save)
		},
	}
	a.outputFlag(cmd, "output `file` (default stdout)")
	cmd.Flags().Float64Var(&a.tolerance, "tolerance", -1,
		"simplification tolerance in pixels (default from config)")
	return cmd
}

func loadCurve(path string) (*automation.Automation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening curve: %w", err)
	}
	defer f.Close()
	a, err := automation.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading curve %s: %w", path, err)
	}
	return a, nil
}

func (a *app) writeOutput(stdout io.Writer, write func(io.Writer) error) error {
	if a.outPath == "" {
		return write(stdout)
	}
	f, err := os.Create(a.outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	a.log.Info("wrote output", "path", a.outPath)
	return nil
}

func evalTimes(ctx context.Context, a *automation.Automation, args []string, stdout io.Writer) error {
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("eval: %w", err)
		}
		if _, err := fmt.Fprintf(stdout, "%g\t%g\n", t, a.ValueAt(t)); err != nil {
			return err
		}
	}
	return nil
}

// simplify redraws the curve as a freehand stroke sampled once per pixel
// column of v and commits it with the given tolerance in pixels.
func simplify(ctx context.Context, a *automation.Automation, v automation.View, tolerance float64) (*automation.Automation, error) {
	if a.Len() < 2 {
		return a.Clone(), nil
	}
	ed, err := automation.NewEditor(a.Clone(), v.Size)
	if err != nil {
		return nil, err
	}
	if err := ed.SetViewWindow(v.Window); err != nil {
		return nil, err
	}
	t0, t1 := a.Key(0).Time, a.Key(a.Len()-1).Time
	x0, x1 := v.XForTime(t0), v.XForTime(t1)

	ed.BeginPaint(ed.ToView(automation.Pt(t0, a.ValueAt(t0))))
	for x := x0 + 1; x < x1; x++ {
		if err := ctx.Err(); err != nil {
			ed.CancelPaint()
			return nil, err
		}
		t := v.TimeForX(x)
		if err := ed.PaintTo(ed.ToView(automation.Pt(t, a.ValueAt(t)))); err != nil {
			return nil, err
		}
	}
	if err := ed.PaintTo(ed.ToView(automation.Pt(t1, a.ValueAt(t1)))); err != nil {
		return nil, err
	}
	// the stroke covers every key, but its end points went through the view
	// transform and may be off by an ulp
	if err := ed.Do(automation.ClearKeys{}); err != nil {
		return nil, err
	}
	if _, err := ed.EndPaint(tolerance); err != nil {
		return nil, err
	}
	return ed.Curve(), nil
}
