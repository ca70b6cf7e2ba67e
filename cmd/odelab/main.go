package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/odelab/internal/config"
	"github.com/san-kum/odelab/internal/methods"
	"github.com/san-kum/odelab/internal/parser"
	"github.com/san-kum/odelab/internal/solver"
	"github.com/san-kum/odelab/internal/storage"
	"github.com/san-kum/odelab/internal/viz"
)

var (
	dataDir    string
	t0         float64
	y0         float64
	y0Vec      string
	tEnd       float64
	stepSize   float64
	method     string
	maxIter    int
	configFile string
	preset     string
	noStore    bool
	// Phase plot axes
	xAxis int
	yAxis int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odelab",
		Short: "symbolic ODE solving lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".odelab", "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve [equation]",
		Short: "solve dy/dt = f(t, y)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	addSolveFlags(solveCmd)

	systemCmd := &cobra.Command{
		Use:   "system [equation...]",
		Short: "solve a coupled system dyi/dt = fi(t, y1..yN)",
		RunE:  runSystem,
	}
	addSolveFlags(systemCmd)

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list integration methods",
		RunE:  listMethods,
	}

	checkCmd := &cobra.Command{
		Use:   "check [equation...]",
		Short: "validate equations without solving",
		Args:  cobra.MinimumNArgs(1),
		RunE:  checkEquations,
	}

	estimateCmd := &cobra.Command{
		Use:   "estimate [equation]",
		Short: "suggest a step size for an equation",
		Args:  cobra.ExactArgs(1),
		RunE:  estimateStep,
	}
	estimateCmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	estimateCmd.Flags().Float64Var(&y0, "y0", 1, "initial value")
	estimateCmd.Flags().Float64Var(&tEnd, "tend", 10, "end time")

	mathCmd := &cobra.Command{
		Use:   "math",
		Short: "list supported functions and constants",
		RunE: func(cmd *cobra.Command, args []string) error {
			fns, consts := solver.SupportedMath()
			fmt.Printf("functions: %s\n", strings.Join(fns, ", "))
			fmt.Printf("constants: %s\n", strings.Join(consts, ", "))
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plot of two components of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 1, "component for x-axis (1-based)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 2, "component for y-axis (1-based)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run's points to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run's metadata to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				desc := cfg.Equation
				if cfg.IsSystem() {
					desc = strings.Join(cfg.Equations, ", ")
				}
				fmt.Printf("  %-16s %s\n", name, desc)
			}
			return nil
		},
	}

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "interactive preset browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.AddCommand(solveCmd, systemCmd, methodsCmd, checkCmd, estimateCmd, mathCmd,
		listCmd, plotCmd, phaseCmd, exportCSVCmd, exportJSONCmd, presetsCmd, interactiveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
	cmd.Flags().Float64Var(&y0, "y0", 1, "initial value (scalar)")
	cmd.Flags().StringVar(&y0Vec, "y0-vec", "", "initial values, comma separated (system)")
	cmd.Flags().Float64Var(&tEnd, "tend", 10, "end time")
	cmd.Flags().Float64Var(&stepSize, "dt", 0.01, "step size")
	cmd.Flags().StringVar(&method, "method", "rk4", "integration method (euler, heun, rk4)")
	cmd.Flags().IntVar(&maxIter, "max-iter", 0, "iteration cap (0 = default)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip storing the run")
}

// resolveConfig merges preset, config file, and CLI flags; flags that were
// set explicitly win over file values, which win over preset values.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("t0") {
		cfg.T0 = t0
	}
	if cmd.Flags().Changed("y0") {
		cfg.Y0 = y0
	}
	if cmd.Flags().Changed("tend") {
		cfg.TEnd = tEnd
	}
	if cmd.Flags().Changed("dt") {
		cfg.StepSize = stepSize
	}
	if cmd.Flags().Changed("method") {
		cfg.Method = method
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.MaxIter = maxIter
	}
	if cmd.Flags().Changed("y0-vec") {
		vec, err := parseVector(y0Vec)
		if err != nil {
			return nil, err
		}
		cfg.Y0Vec = vec
	}

	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Equation = args[0]
		cfg.Equations = nil
	}
	if cfg.Equation == "" {
		return fmt.Errorf("no equation given (argument, --preset, or --config)")
	}

	warnStepSize(methods.ValidateStepSize(cfg.StepSize, cfg.T0, cfg.TEnd))

	sol := solver.Solve(context.Background(), cfg.Equation, solver.Options{
		T0: cfg.T0, Y0: cfg.Y0, TEnd: cfg.TEnd,
		StepSize: cfg.StepSize, Method: cfg.Method, MaxIterations: cfg.MaxIter,
	})

	fmt.Println(viz.PlotSolution(cfg.Equation, sol))
	if !sol.Success {
		return fmt.Errorf("solve failed")
	}
	fmt.Printf("computed %d points in %s\n", sol.Meta.PointCount, sol.ComputeTime)

	return storeScalar(cfg.Equation, sol)
}

func runSystem(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Equations = args
		cfg.Equation = ""
	}
	if len(cfg.Equations) == 0 {
		return fmt.Errorf("no equations given (arguments, --preset, or --config)")
	}
	if len(cfg.Y0Vec) == 0 {
		return fmt.Errorf("a system solve needs --y0-vec (or a preset/config with y0_vec)")
	}

	warnStepSize(methods.ValidateCoupledStepSize(cfg.StepSize, cfg.T0, cfg.TEnd))

	sol := solver.SolveSystem(context.Background(), cfg.Equations, solver.SystemOptions{
		T0: cfg.T0, Y0: cfg.Y0Vec, TEnd: cfg.TEnd,
		StepSize: cfg.StepSize, Method: cfg.Method, MaxIterations: cfg.MaxIter,
	})

	fmt.Println(viz.PlotSystem(cfg.Equations, sol))
	if !sol.Success {
		return fmt.Errorf("solve failed")
	}
	fmt.Printf("computed %d points in %s\n", sol.Meta.PointCount, sol.ComputeTime)

	if noStore {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveSystem(cfg.Equations, sol)
	if err != nil {
		return err
	}
	fmt.Printf("stored as %s\n", runID)
	return nil
}

func storeScalar(equation string, sol *solver.Solution) error {
	if noStore {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(equation, sol)
	if err != nil {
		return err
	}
	fmt.Printf("stored as %s\n", runID)
	return nil
}

func warnStepSize(chk methods.StepSizeCheck) {
	if chk.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", chk.Warning)
	}
}

func listMethods(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tORDER\tDESCRIPTION")
	for _, m := range solver.Methods() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", m.Key, m.Name, m.Order, m.Description)
	}
	return w.Flush()
}

func checkEquations(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		if err := solver.ValidateEquation(args[0]); err != nil {
			return fmt.Errorf("invalid: %w", err)
		}
		eq := parser.Parse(args[0])
		fmt.Printf("ok: variables %v\n", eq.Variables)
		return nil
	}
	if err := solver.ValidateEquations(args); err != nil {
		return fmt.Errorf("invalid: %w", err)
	}
	sys := parser.ParseSystem(args)
	fmt.Printf("ok: %d equations, variables %v\n", len(args), sys.Variables)
	return nil
}

func estimateStep(cmd *cobra.Command, args []string) error {
	eq := parser.Parse(args[0])
	if !eq.Valid {
		return fmt.Errorf("invalid equation: %w", eq.Err)
	}

	h := methods.EstimateStepSize(eq.Eval, t0, y0, tEnd)
	fmt.Printf("suggested step size: %g (%.0f steps over [%g, %g])\n",
		h, (tEnd-t0)/h, t0, tEnd)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEQUATIONS\tMETHOD\tDOMAIN\tDT\tPOINTS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%g\t%d\t%s\n",
			run.ID,
			strings.Join(run.Equations, "; "),
			run.Method,
			run.T0, run.TEnd,
			run.StepSize,
			run.PointCount,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, values, cols, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("equations: %s\n", strings.Join(meta.Equations, "; "))
	fmt.Printf("samples: %d\n\n", len(values))

	// Value columns come first, derivative columns after.
	for i := 0; i < meta.Components && i < len(cols); i++ {
		data := make([]float64, len(values))
		for j := range values {
			data[j] = values[j][i]
		}
		fmt.Println(viz.Line(data, cols[i]))
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if xAxis < 1 || xAxis > meta.Components || yAxis < 1 || yAxis > meta.Components {
		return fmt.Errorf("axes must be in [1, %d]", meta.Components)
	}

	_, values, _, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}

	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	for i, row := range values {
		xs[i] = row[xAxis-1]
		ys[i] = row[yAxis-1]
	}

	fmt.Printf("y%d vs y%d\n", yAxis, xAxis)
	fmt.Println(viz.PhasePlot(xs, ys, 70, 22))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, values, cols, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(append([]string{"t"}, cols...)); err != nil {
		return err
	}
	for i := range times {
		row := make([]string, 0, 1+len(values[i]))
		row = append(row, strconv.FormatFloat(times[i], 'g', 12, 64))
		for _, v := range values[i] {
			row = append(row, strconv.FormatFloat(v, 'g', 12, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func parseVector(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid initial value %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
