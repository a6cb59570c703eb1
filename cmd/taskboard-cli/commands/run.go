package commands

import (
	"log/slog"
	"taskboard-backend/lib/browser"
	"taskboard-backend/lib/configutil"
	"taskboard-backend/lib/configutil/sqlitecfg"
	"taskboard-backend/lib/serviceutil"
	"taskboard-backend/services/collector"
	"taskboard-backend/services/taskstore"
	"taskboard-backend/services/taskstore/db"
	"time"

	"github.com/spf13/cobra"
)

type Config struct {
	Database    sqlitecfg.Struct                      `json:"database"`
	Browser     browser.Options                       `json:"browser"`
	Credentials map[string]collector.Credentials      `json:"credentials"`
	Platforms   map[string]collector.PlatformOverride `json:"platforms"`
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func openStore(cfg Config) taskstore.Store {
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return taskstore.NewStore(database)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one collection cycle according to a config and writes to a database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		platforms, err := collector.ConfiguredPlatforms(cfg.Platforms)
		if err != nil {
			serviceutil.Fatal("configure platforms", err)
		}
		store := openStore(cfg)
		runner := collector.NewRunner(
			store,
			browser.NewChromeFactory(cfg.Browser),
			platforms,
			collector.CredentialSource(cfg.Credentials),
		)

		t1 := time.Now()
		summary, err := runner.RunOnce(cmd.Context())
		if err != nil {
			serviceutil.Fatal("collection run", err)
		}
		t2 := time.Now()

		for platform, err := range summary.Errors {
			slog.Warn("platform failed", "platform", platform, "err", err)
		}
		slog.Info("collection run finished",
			"records", summary.Records,
			"written", summary.Written,
			"swept", summary.Swept,
			"seconds", t2.Sub(t1).Seconds())
	},
}
