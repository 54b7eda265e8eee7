package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/internal/ollama"
	"github.com/tverkroost/envcheck/pkg/classify"
	"github.com/tverkroost/envcheck/pkg/config"
	"github.com/tverkroost/envcheck/pkg/probes"
	"github.com/tverkroost/envcheck/pkg/probes/smoke"
	"github.com/tverkroost/envcheck/pkg/report"
	"github.com/tverkroost/envcheck/pkg/runner"
	"github.com/tverkroost/envcheck/pkg/store"
)

// smokeFlagMapping couples the smoke command's viper keys with their
// CLI flags and environment overrides.
type smokeFlagMapping struct {
	Host       *Flag
	Model      *Flag
	Timeout    *Flag
	All        *Flag
	Quick      *Flag
	Record     *Flag
	DBHost     *Flag
	DBName     *Flag
	DBUser     *Flag
	ConfigFile *Flag
	JSON       *Flag
	NoColor    *Flag
}

// NewCmdSmoke creates a new smoke command
func NewCmdSmoke() *cobra.Command {
	fm := &smokeFlagMapping{
		Host:       NewFlag("smoke.host", "host").WithEnv("MODEL_HOST"),
		Model:      NewFlag("smoke.model", "model"),
		Timeout:    NewFlag("smoke.timeout", "timeout").WithEnv("MODEL_TIMEOUT"),
		All:        NewFlag("smoke.all", "all"),
		Quick:      NewFlag("smoke.quick", "quick"),
		Record:     NewFlag("smoke.record", "record"),
		DBHost:     NewFlag("smoke.db.host", "db-host").WithEnv("DB_HOST"),
		DBName:     NewFlag("smoke.db.name", "db-name").WithEnv("DB_NAME"),
		DBUser:     NewFlag("smoke.db.user", "db-user").WithEnv("DB_USER"),
		ConfigFile: NewFlag("smoke.config", "config"),
		JSON:       NewFlag("smoke.json", "json"),
		NoColor:    NewFlag("smoke.no-color", "no-color"),
	}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run heuristic code-quality probes against local models",
		Long: "Smoke submits canned coding prompts to the model runtime and applies\n" +
			"heuristic pattern checks to the completions. The checks approximate\n" +
			"correctness; they do not execute the generated code.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSmoke(cmd, fm)
		},
	}

	fm.Host.StringP("H").Bind(cmd, config.DefaultModelHost, "base URL of the model runtime")
	fm.Model.StringP("m").Bind(cmd, "", "model to test; routed per prompt when empty")
	fm.Timeout.IntP("t").Bind(cmd, int(config.DefaultModelTimeout.Seconds()), "per-generation timeout in seconds")
	fm.All.BoolP("a").Bind(cmd, false, "test every installed model")
	fm.Quick.BoolP("q").Bind(cmd, false, "run the reduced probe set")
	fm.Record.Bool().Bind(cmd, false, "append one row per probe to the smoke-runs table")
	fm.DBHost.String().Bind(cmd, "localhost", "database host for --record")
	fm.DBName.String().Bind(cmd, "", "database name for --record")
	fm.DBUser.String().Bind(cmd, "", "database user for --record")
	fm.ConfigFile.StringP("c").Bind(cmd, "", "path to a YAML file with model routes")
	fm.JSON.Bool().Bind(cmd, false, "print the report as JSON instead of a table")
	fm.NoColor.Bool().Bind(cmd, false, "disable ANSI colors in the table")

	return cmd
}

// runSmoke executes the smoke probe set against one model, a routed
// model per prompt, or every installed model with --all.
func runSmoke(cmd *cobra.Command, fm *smokeFlagMapping) error {
	log := logger.NewLogger()
	ctx := logger.IntoContext(cmd.Context(), log)

	cfg, err := loadSmokeConfig(cmd, fm)
	if err != nil {
		return err
	}
	if err := cfg.Validate(ctx); err != nil {
		return err
	}

	client := ollama.New(cfg.Model.Host, cfg.Model.Timeout)
	specs := smoke.Specs(viper.GetBool(fm.Quick.Config))
	out := cmd.OutOrStdout()

	var targets []string
	switch {
	case viper.GetBool(fm.All.Config):
		list, err := client.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if len(list) == 0 {
			return fmt.Errorf("no models found on %s", cfg.Model.Host)
		}
		for _, m := range list {
			targets = append(targets, m.Name)
		}
	case viper.GetString(fm.Model.Config) != "":
		targets = []string{viper.GetString(fm.Model.Config)}
	default:
		// one routed pass: each prompt picks its specialist model
		targets = []string{""}
	}

	healthy := true
	for _, target := range targets {
		rep, smokeProbes, err := runSmokePass(ctx, cfg, client, specs, target)
		if err != nil {
			return err
		}
		if rep.Overall != runner.VerdictHealthy {
			healthy = false
		}

		printSmokeReport(out, fm, cfg, rep, target)

		if viper.GetBool(fm.Record.Config) {
			recordSmokeRun(ctx, cfg, rep, smokeProbes)
		}
	}

	if !healthy {
		return fmt.Errorf("smoke test failed")
	}
	return nil
}

// runSmokePass runs all specs once. With an empty target the model is
// routed per prompt via the classifier.
func runSmokePass(ctx context.Context, cfg *config.Config, gen smoke.Generator, specs []smoke.Spec, target string) (runner.Report, []*smoke.Probe, error) {
	smokeProbes := make([]*smoke.Probe, 0, len(specs))
	ps := make([]probes.Probe, 0, len(specs))
	for _, spec := range specs {
		model := target
		if model == "" {
			model = classify.PickModel(classify.Classify(spec.Prompt), cfg.Model.Routes, cfg.Model.Default)
		}
		p := smoke.New(spec, model, gen)
		smokeProbes = append(smokeProbes, p)
		ps = append(ps, p)
	}

	// generation runs serialize on the GPU; running them concurrently
	// would only skew the timings
	r := runner.New(cfg.Model.Timeout+time.Second, false)
	rep, err := r.Run(ctx, ps)
	return rep, smokeProbes, err
}

func printSmokeReport(out io.Writer, fm *smokeFlagMapping, cfg *config.Config, rep runner.Report, target string) {
	jsonOut := viper.GetBool(fm.JSON.Config)
	printer := report.New(out, !jsonOut && !viper.GetBool(fm.NoColor.Config))

	if jsonOut {
		_ = printer.JSON(rep)
		return
	}

	if target == "" {
		target = cfg.Model.Default + " (routed)"
	}
	fmt.Fprintf(out, "\nModel: %s\nHost: %s\n", target, cfg.Model.Host)
	printer.Table("SMOKE TEST RESULTS", rep)
	printer.Summary(rep)
}

// recordSmokeRun persists the pass outcomes. Recording is bookkeeping:
// any failure is logged and swallowed so it never alters the verdict.
func recordSmokeRun(ctx context.Context, cfg *config.Config, rep runner.Report, smokeProbes []*smoke.Probe) {
	log := logger.FromContext(ctx)

	if !cfg.HasDB() {
		log.WarnContext(ctx, "Recording requested but no database configured")
		return
	}

	st, err := store.New(ctx, cfg.DB.DSN())
	if err != nil {
		log.WarnContext(ctx, "Failed to open datastore for recording", "error", err)
		return
	}
	defer st.Close()

	records := make([]store.Record, 0, len(smokeProbes))
	for i, p := range smokeProbes {
		records = append(records, store.Record{
			Model:    p.Model(),
			Probe:    p.Name(),
			Passed:   rep.Results[i].Status == probes.StatusOK,
			Duration: rep.Results[i].Duration,
			Response: p.Response(),
			Created:  rep.Timestamp,
		})
	}

	if err := st.RecordSmokeRun(ctx, cfg.Record.Table, records); err != nil {
		log.WarnContext(ctx, "Failed to record smoke run", "error", err)
	}
}

// loadSmokeConfig builds the config for one smoke run: defaults, then
// the optional file, then environment and flags on top.
func loadSmokeConfig(cmd *cobra.Command, fm *smokeFlagMapping) (*config.Config, error) {
	cfg := config.New()

	if path := viper.GetString(fm.ConfigFile.Config); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	applyFlag(cmd, fm.Host, func() { cfg.Model.Host = viper.GetString(fm.Host.Config) })
	applyFlag(cmd, fm.Timeout, func() {
		cfg.Model.Timeout = time.Duration(viper.GetInt(fm.Timeout.Config)) * time.Second
	})
	applyFlag(cmd, fm.DBHost, func() { cfg.DB.Host = viper.GetString(fm.DBHost.Config) })
	applyFlag(cmd, fm.DBName, func() { cfg.DB.Name = viper.GetString(fm.DBName.Config) })
	applyFlag(cmd, fm.DBUser, func() { cfg.DB.User = viper.GetString(fm.DBUser.Config) })

	return cfg, nil
}
