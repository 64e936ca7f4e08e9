package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/mudensity"
	"github.com/gogpu/mudensity/delivery"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	resolution      float64
	maxLeafGap      float64
	leafWidths      []float64
	minSteps        int
	gantryTolerance float64
	allowMissing    bool
	verbose         bool
}

func (f *globalFlags) options() []mudensity.Option {
	opts := []mudensity.Option{
		mudensity.WithGridResolution(f.resolution),
		mudensity.WithMaxLeafGap(f.maxLeafGap),
		mudensity.WithMinStepPerPixel(f.minSteps),
		mudensity.WithGantryTolerance(f.gantryTolerance),
		mudensity.WithAllowMissingAngles(f.allowMissing),
	}
	if len(f.leafWidths) > 0 {
		opts = append(opts, mudensity.WithLeafPairWidths(f.leafWidths...))
	}
	return opts
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "mudensity",
		Short: "Compute MU densities of linac beam deliveries.",
		Long: `mudensity reconstructs the MU density (fluence in monitor units) ` +
			`delivered through the MLC and jaws of a linear accelerator from ` +
			`a record of its control points.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			mudensity.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
				&slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.Float64Var(&flags.resolution, "resolution", mudensity.DefaultGridResolution, "grid resolution in mm")
	pf.Float64Var(&flags.maxLeafGap, "max-leaf-gap", mudensity.DefaultMaxLeafGap, "maximum leaf gap in mm")
	pf.Float64SliceVar(&flags.leafWidths, "leaf-widths", nil, "leaf pair widths in mm (default Agility, 80 x 5 mm)")
	pf.IntVar(&flags.minSteps, "min-steps", mudensity.DefaultMinStepPerPixel, "minimum time steps per pixel travelled")
	pf.Float64Var(&flags.gantryTolerance, "gantry-tolerance", mudensity.DefaultGantryTolerance, "gantry angle tolerance in degrees")
	pf.BoolVar(&flags.allowMissing, "allow-missing", false, "give a zero density for gantry angles with no control points")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newGridCmd(flags),
		newCalcCmd(flags),
		newMetersetsCmd(flags),
		newCompareCmd(flags),
	)
	return root
}

// printer formats numbers for the terminal.
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// readBeams decodes every record of a YAML file.
func readBeams(path string) ([]delivery.Delivery, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	beams, err := delivery.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(beams) == 0 {
		return nil, fmt.Errorf("%s: no delivery records", path)
	}
	return beams, nil
}

// readBeam decodes the first record of a YAML file.
func readBeam(path string) (delivery.Delivery, error) {
	beams, err := readBeams(path)
	if err != nil {
		return delivery.Delivery{}, err
	}
	if len(beams) > 1 {
		mudensity.Logger().Warn("using the first of several records", "file", path, "records", len(beams))
	}
	return beams[0], nil
}

func fprintf(w io.Writer, p *message.Printer, format string, args ...any) {
	_, _ = p.Fprintf(w, format, args...)
}
