package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tverkroost/envcheck/internal/logger"
	"github.com/tverkroost/envcheck/pkg/config"
	"github.com/tverkroost/envcheck/pkg/probes"
	"github.com/tverkroost/envcheck/pkg/probes/api"
	"github.com/tverkroost/envcheck/pkg/probes/db"
	"github.com/tverkroost/envcheck/pkg/probes/mesh"
	"github.com/tverkroost/envcheck/pkg/probes/models"
	"github.com/tverkroost/envcheck/pkg/report"
	"github.com/tverkroost/envcheck/pkg/runner"
)

// checkFlagMapping couples the check command's viper keys with their
// CLI flags and environment overrides.
type checkFlagMapping struct {
	APIHost      *Flag
	DBHost       *Flag
	DBName       *Flag
	DBUser       *Flag
	ModelHost    *Flag
	ModelTimeout *Flag
	ConfigFile   *Flag
	Quick        *Flag
	JSON         *Flag
	Sequential   *Flag
	NoColor      *Flag
}

// NewCmdCheck creates a new check command
func NewCmdCheck() *cobra.Command {
	fm := &checkFlagMapping{
		APIHost:      NewFlag("check.api.host", "api-host").WithEnv("API_HOST"),
		DBHost:       NewFlag("check.db.host", "db-host").WithEnv("DB_HOST"),
		DBName:       NewFlag("check.db.name", "db-name").WithEnv("DB_NAME"),
		DBUser:       NewFlag("check.db.user", "db-user").WithEnv("DB_USER"),
		ModelHost:    NewFlag("check.model.host", "model-host").WithEnv("MODEL_HOST"),
		ModelTimeout: NewFlag("check.model.timeout", "model-timeout").WithEnv("MODEL_TIMEOUT"),
		ConfigFile:   NewFlag("check.config", "config"),
		Quick:        NewFlag("check.quick", "quick"),
		JSON:         NewFlag("check.json", "json"),
		Sequential:   NewFlag("check.sequential", "sequential"),
		NoColor:      NewFlag("check.no-color", "no-color"),
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the infrastructure components",
		Long: "Check runs one bounded probe per infrastructure component and prints\n" +
			"a status table. The exit code is 0 iff the overall verdict is HEALTHY.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, fm)
		},
	}

	fm.APIHost.String().Bind(cmd, config.DefaultAPIHost, "base URL of the API server")
	fm.DBHost.String().Bind(cmd, "localhost", "database host")
	fm.DBName.String().Bind(cmd, "", "database name; the database probe is skipped when empty")
	fm.DBUser.String().Bind(cmd, "", "database user; the database probe is skipped when empty")
	fm.ModelHost.String().Bind(cmd, config.DefaultModelHost, "base URL of the model runtime")
	fm.ModelTimeout.Int().Bind(cmd, int(config.DefaultModelTimeout.Seconds()), "per-probe timeout in seconds")
	fm.ConfigFile.StringP("c").Bind(cmd, "", "path to a YAML file with mesh nodes and model routes")
	fm.Quick.BoolP("q").Bind(cmd, false, "run the reduced probe set (API server and model runtime only)")
	fm.JSON.Bool().Bind(cmd, false, "print the report as JSON instead of a table")
	fm.Sequential.Bool().Bind(cmd, false, "run probes one after another instead of concurrently")
	fm.NoColor.Bool().Bind(cmd, false, "disable ANSI colors in the table")

	return cmd
}

// runCheck assembles the probe set, runs it and renders the report.
// A non-HEALTHY verdict surfaces as an error so the process exits nonzero.
func runCheck(cmd *cobra.Command, fm *checkFlagMapping) error {
	log := logger.NewLogger()
	ctx := logger.IntoContext(cmd.Context(), log)

	cfg, err := loadCheckConfig(cmd, fm)
	if err != nil {
		return err
	}
	if err := cfg.Validate(ctx); err != nil {
		return err
	}

	quick := viper.GetBool(fm.Quick.Config)
	ps := assembleProbes(cfg, quick)

	r := runner.New(runTimeout(cfg), !viper.GetBool(fm.Sequential.Config))
	rep, err := r.Run(ctx, ps)
	if err != nil {
		return err
	}

	jsonOut := viper.GetBool(fm.JSON.Config)
	printer := report.New(cmd.OutOrStdout(), !jsonOut && !viper.GetBool(fm.NoColor.Config))
	if jsonOut {
		if err := printer.JSON(rep); err != nil {
			return err
		}
	} else {
		printer.Table("ENVIRONMENT STATUS", rep)
	}

	if rep.Overall != runner.VerdictHealthy {
		return fmt.Errorf("overall status: %s", rep.Overall)
	}
	return nil
}

// loadCheckConfig builds the config for one check run: defaults, then the
// optional file, then environment and flags on top.
func loadCheckConfig(cmd *cobra.Command, fm *checkFlagMapping) (*config.Config, error) {
	cfg := config.New()

	if path := viper.GetString(fm.ConfigFile.Config); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	applyFlag(cmd, fm.APIHost, func() { cfg.API.Host = viper.GetString(fm.APIHost.Config) })
	applyFlag(cmd, fm.DBHost, func() { cfg.DB.Host = viper.GetString(fm.DBHost.Config) })
	applyFlag(cmd, fm.DBName, func() { cfg.DB.Name = viper.GetString(fm.DBName.Config) })
	applyFlag(cmd, fm.DBUser, func() { cfg.DB.User = viper.GetString(fm.DBUser.Config) })
	applyFlag(cmd, fm.ModelHost, func() { cfg.Model.Host = viper.GetString(fm.ModelHost.Config) })
	applyFlag(cmd, fm.ModelTimeout, func() {
		cfg.Model.Timeout = time.Duration(viper.GetInt(fm.ModelTimeout.Config)) * time.Second
	})

	return cfg, nil
}

// applyFlag runs apply iff the flag was given on the command line or its
// environment variable is set, so file values are not clobbered by flag
// defaults.
func applyFlag(cmd *cobra.Command, f *Flag, apply func()) {
	if cmd.PersistentFlags().Changed(f.Cli) || (f.Env != "" && os.Getenv(f.Env) != "") {
		apply()
	}
}

// assembleProbes builds the ordered probe set. The full set follows the
// component order of the status table; quick keeps only the two probes
// that answer within milliseconds on a healthy setup.
func assembleProbes(cfg *config.Config, quick bool) []probes.Probe {
	modelCfg := models.Config{Host: cfg.Model.Host, Timeout: config.DefaultProbeTimeout}

	ps := []probes.Probe{api.New(cfg.API)}
	if quick {
		return append(ps, models.New(modelCfg))
	}

	if cfg.HasDB() {
		ps = append(ps, db.New(cfg.DB))
	}
	ps = append(ps, models.New(modelCfg))
	ps = append(ps, mesh.New(cfg.Mesh))
	return ps
}

// runTimeout caps a single probe run. The model timeout is the largest
// budget in the config, every other probe bounds itself tighter.
func runTimeout(cfg *config.Config) time.Duration {
	t := cfg.Model.Timeout
	if t < config.DefaultProbeTimeout {
		t = config.DefaultProbeTimeout
	}
	return t + time.Second
}
