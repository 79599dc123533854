package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/expmv/internal/config"
	"github.com/san-kum/expmv/internal/export"
	"github.com/san-kum/expmv/internal/krylov"
	"github.com/san-kum/expmv/internal/live"
	"github.com/san-kum/expmv/internal/storage"
	"github.com/san-kum/expmv/internal/sweep"
	"github.com/san-kum/expmv/internal/trace"
)

var (
	dataDir    string
	configFile string
	tval       float64
	tol        float64
	mdim       int
	noSave     bool
	svgOut     string
	sweepTols  []float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "expmv",
		Short: "adaptive Krylov propagation of e^(tA)v",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".expmv", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "propagate a vector through e^(tA)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPropagation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&tval, "t", config.DefaultT, "propagation time")
	runCmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "local error tolerance")
	runCmd.Flags().IntVar(&mdim, "m", 0, "Krylov subspace dimension (0 = auto)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "propagate with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().Float64Var(&tval, "t", config.DefaultT, "propagation time")
	liveCmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "local error tolerance")
	liveCmd.Flags().IntVar(&mdim, "m", 0, "Krylov subspace dimension (0 = auto)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot step sizes and state norm of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the step trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render step size, state norm, and error plots as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", ".", "output directory for SVG files")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "propagate under several tolerances and compare cost",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().Float64Var(&tval, "t", config.DefaultT, "propagation time")
	sweepCmd.Flags().IntVar(&mdim, "m", 0, "Krylov subspace dimension (0 = auto)")
	sweepCmd.Flags().Float64SliceVar(&sweepTols, "tols", []float64{1e-4, 1e-7, 1e-10}, "tolerances to sweep")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges preset, config file, and flag overrides, with flags
// winning.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := "default"
	var cfg *config.Config

	if len(args) > 0 {
		name = args[0]
		preset := config.GetPreset(name)
		if preset == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		c := *preset
		cfg = &c
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = "config"
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("t") {
		cfg.T = tval
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tol = tol
	}
	if cmd.Flags().Changed("m") {
		cfg.M = mdim
	}
	return cfg, name, nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	a, err := cfg.BuildOperator()
	if err != nil {
		return err
	}
	_, n := a.Dims()
	v, err := cfg.BuildInitVector(n)
	if err != nil {
		return err
	}

	rec := trace.NewRecorder()
	opts := cfg.KrylovOptions()
	opts.Observer = rec

	w := make([]float64, n)
	stats, err := krylov.ExpmvTo(w, cfg.T, a, v, opts)
	if err != nil {
		return err
	}

	printSummary(name, cfg, n, stats)
	printVector("result", w)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(name, cfg.T, cfg.Tol, stats.BasisDim, n, stats, rec.Steps, w)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run: %s\n", runID)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	a, err := cfg.BuildOperator()
	if err != nil {
		return err
	}
	_, n := a.Dims()
	v, err := cfg.BuildInitVector(n)
	if err != nil {
		return err
	}

	w, stats, err := live.Run(cfg.T, a, v, cfg.KrylovOptions())
	if err != nil {
		return err
	}
	printSummary(name, cfg, n, stats)
	printVector("result", w)
	return nil
}

func printSummary(name string, cfg *config.Config, dim int, stats krylov.Stats) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "problem\t%s\n", name)
	fmt.Fprintf(tw, "dim\t%d\n", dim)
	fmt.Fprintf(tw, "t\t%g\n", cfg.T)
	fmt.Fprintf(tw, "tol\t%g\n", cfg.Tol)
	fmt.Fprintf(tw, "m\t%d\n", stats.BasisDim)
	fmt.Fprintf(tw, "steps\t%d\n", stats.Steps)
	fmt.Fprintf(tw, "rejected\t%d\n", stats.Rejected)
	fmt.Fprintf(tw, "matvecs\t%d\n", stats.MatVecs)
	fmt.Fprintf(tw, "breakdowns\t%d\n", stats.Breakdowns)
	fmt.Fprintf(tw, "err estimate\t%.3e\n", stats.ErrorEstimate)
	tw.Flush()
}

func printVector(label string, v []float64) {
	const head = 8
	fmt.Printf("%s:", label)
	n := len(v)
	if n <= 2*head {
		for _, x := range v {
			fmt.Printf(" %.6g", x)
		}
		fmt.Println()
		return
	}
	for _, x := range v[:head] {
		fmt.Printf(" %.6g", x)
	}
	fmt.Printf(" ... (%d entries)\n", n)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDIM\tT\tTOL\tSTEPS\tREJECTED\tMATVECS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%g\t%g\t%d\t%d\t%d\n",
			r.ID, r.Dim, r.T, r.Tol, r.Steps, r.Rejected, r.MatVecs)
	}
	return tw.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	steps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	if len(steps) < 2 {
		fmt.Println("not enough steps to plot")
		return nil
	}

	taus := make([]float64, len(steps))
	norms := make([]float64, len(steps))
	for i, s := range steps {
		taus[i] = s.Tau
		norms[i] = s.Norm
	}

	fmt.Println(asciigraph.Plot(taus,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("accepted step size"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(norms,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("state norm"),
	))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	steps, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}

	out := struct {
		Meta   *storage.RunMetadata `json:"meta"`
		Steps  []krylov.Step        `json:"steps"`
		Result []float64            `json:"result"`
	}{meta, steps, result}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	steps, err := st.LoadSteps(runID)
	if err != nil {
		return err
	}
	if len(steps) < 2 {
		return fmt.Errorf("not enough steps to plot: %d", len(steps))
	}

	plots := []struct {
		suffix string
		svg    string
	}{
		{"tau", export.StepSizeSVG(steps, 640, 240)},
		{"norm", export.NormSVG(steps, 640, 240)},
		{"err", export.ErrSVG(steps, 640, 240)},
	}
	for _, p := range plots {
		name := filepath.Join(svgOut, fmt.Sprintf("%s_%s.svg", runID, p.suffix))
		if err := os.WriteFile(name, []byte(p.svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", name)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	a, err := cfg.BuildOperator()
	if err != nil {
		return err
	}
	_, n := a.Dims()
	v, err := cfg.BuildInitVector(n)
	if err != nil {
		return err
	}

	if len(sweepTols) == 0 {
		return fmt.Errorf("no tolerances given")
	}

	sw := sweep.New(cfg.T, a, v, *cfg.KrylovOptions())
	results, err := sw.Run(context.Background(), sweepTols)
	if err != nil {
		return err
	}

	// The tightest tolerance serves as the reference solution.
	ref := results[0]
	for _, r := range results[1:] {
		if r.Tol < ref.Tol {
			ref = r
		}
	}

	fmt.Printf("problem %s, dim %d, t %g\n\n", name, n, cfg.T)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOL\tSTEPS\tREJECTED\tMATVECS\tERR_EST\tDEV_FROM_REF")
	for _, r := range results {
		dev := 0.0
		for i := range r.W {
			if d := math.Abs(r.W[i] - ref.W[i]); d > dev {
				dev = d
			}
		}
		fmt.Fprintf(tw, "%g\t%d\t%d\t%d\t%.3e\t%.3e\n",
			r.Tol, r.Stats.Steps, r.Stats.Rejected, r.Stats.MatVecs, r.Stats.ErrorEstimate, dev)
	}
	return tw.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	steps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{"time", "tau", "err", "norm", "basis_size"}); err != nil {
		return err
	}
	for _, s := range steps {
		row := []string{
			strconv.FormatFloat(s.Time, 'g', 12, 64),
			strconv.FormatFloat(s.Tau, 'g', 12, 64),
			strconv.FormatFloat(s.Err, 'g', 12, 64),
			strconv.FormatFloat(s.Norm, 'g', 12, 64),
			strconv.Itoa(s.BasisSize),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
