package main

import (
	"fmt"
	"log/slog"
	"os"

	"rulematch/internal/app"
	"rulematch/internal/config"
	"rulematch/internal/cyk"
	"rulematch/internal/document"
	"rulematch/internal/grammar"
	"rulematch/internal/report"
	"rulematch/internal/ruletext"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func NewCLI() *cobra.Command {
	root := &cobra.Command{
		Use:          "rulematch",
		Short:        "Count strings matched by numbered context-free rules",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Path to a TOML config file")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newSolveCmd(), newNormalizeCmd(), newCheckCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve INPUT",
		Short: "Count matching candidates before and after the overrides",
		Args:  cobra.ExactArgs(1),
		RunE:  solveHandler,
	}
	cmd.Flags().Int("start", -1, "Start rule id (default from config, 0)")
	cmd.Flags().Int("workers", 0, "Parallel recognitions (default from config, NumCPU)")
	cmd.Flags().Bool("no-overrides", false, "Only run the grammar as given")
	cmd.Flags().Bool("matches", false, "List the outcome of every candidate")
	cmd.Flags().String("dot", "", "Write the last normalized grammar as Graphviz to this file")
	cmd.Flags().Bool("metrics", false, "Print collected metrics after the run")
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize INPUT",
		Short: "Print the binary form of the input grammar",
		Args:  cobra.ExactArgs(1),
		RunE:  normalizeHandler,
	}
	cmd.Flags().Bool("overrides", false, "Apply the configured overrides first")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check INPUT STRING...",
		Short: "Check individual strings against the input grammar",
		Args:  cobra.MinimumNArgs(2),
		RunE:  checkHandler,
	}
	cmd.Flags().Bool("overrides", false, "Apply the configured overrides first")
	return cmd
}

// setup loads config and installs the default logger.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return cfg, nil
}

func solveHandler(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if start, _ := cmd.Flags().GetInt("start"); start >= 0 {
		cfg.Start = uint32(start)
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if off, _ := cmd.Flags().GetBool("no-overrides"); off {
		cfg.Overrides = nil
	}

	doc, err := document.Load(args[0])
	if err != nil {
		return err
	}
	rep, err := app.Solve(cmd.Context(), doc, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "part 1: %d\n", rep.Base.Count)
	if rep.Overridden != nil {
		fmt.Fprintf(out, "part 2: %d\n", rep.Overridden.Count)
	}
	fmt.Fprintln(out)
	report.WriteSummary(out, rep)

	if list, _ := cmd.Flags().GetBool("matches"); list {
		fmt.Fprintln(out)
		report.WriteMatches(out, rep)
	}

	if path, _ := cmd.Flags().GetString("dot"); path != "" {
		last := rep.Base
		if rep.Overridden != nil {
			last = rep.Overridden
		}
		if err := writeDOT(path, last.Grammar); err != nil {
			return err
		}
		slog.Info("grammar graph written", "path", path)
	}

	if show, _ := cmd.Flags().GetBool("metrics"); show {
		fmt.Fprintln(out)
		return report.WriteMetrics(out, prometheus.DefaultGatherer)
	}
	return nil
}

func writeDOT(path string, g *grammar.Grammar) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	report.WriteDOT(f, g)
	return f.Close()
}

// loadGrammar parses the rules of INPUT and optionally applies the overrides.
func loadGrammar(cmd *cobra.Command, path string, cfg *config.Config) (*grammar.Grammar, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	g, err := ruletext.ParseRules(doc.Rules)
	if err != nil {
		return nil, err
	}
	if apply, _ := cmd.Flags().GetBool("overrides"); apply {
		o, err := cfg.GrammarOverrides()
		if err != nil {
			return nil, err
		}
		g = g.WithOverrides(o)
	}
	return g, nil
}

func normalizeHandler(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	g, err := loadGrammar(cmd, args[0], cfg)
	if err != nil {
		return err
	}
	norm, st, err := app.Normalize(g, cfg)
	if err != nil {
		return err
	}
	slog.Debug("normalized", "synthetic", st.SyntheticRules, "units_inlined", st.UnitsInlined)
	fmt.Fprint(cmd.OutOrStdout(), norm.String())
	return nil
}

func checkHandler(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	g, err := loadGrammar(cmd, args[0], cfg)
	if err != nil {
		return err
	}
	norm, _, err := app.Normalize(g, cfg)
	if err != nil {
		return err
	}
	rec, err := cyk.New(norm)
	if err != nil {
		return err
	}
	for _, in := range args[1:] {
		result := "no match"
		if rec.Recognizes(grammar.ID(cfg.Start), in) {
			result = "match"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", in, result)
	}
	return nil
}
