package commands

import (
	"context"
	"os"
	"time"

	"jobcan-assist/lib/configutil"
	"jobcan-assist/lib/restyutil"
	"jobcan-assist/lib/serviceutil"
	"jobcan-assist/lib/sqliteutil"
	"jobcan-assist/lib/telemetry"
	"jobcan-assist/services/attendance"
	"jobcan-assist/services/keyring"
	"jobcan-assist/services/keyring/db"

	"github.com/spf13/cobra"
)

type Config struct {
	Database        string `json:"database"`
	AccountBaseUrl  string `json:"account_base_url"`
	EmployeeBaseUrl string `json:"employee_base_url"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	// when set, HTTP exchanges are dumped here in verbose mode
	DebugDir string `json:"debug_dir"`
}

var (
	verbose bool
	service *attendance.Service
)

var rootCmd = &cobra.Command{
	Use:   "jobcan-cli",
	Short: "Clock in and out of the Jobcan attendance portal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		_, err := telemetry.SetupFromEnv(cmd.Context(), "jobcan-cli")
		if err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}

		cfg, err := configutil.ReadConfig[Config]("jobcan.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("read config", err)
		}
		if cfg.Database == "" {
			cfg.Database = "jobcan.db"
		}

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Database)
		if err != nil {
			serviceutil.Fatal("open keyring database", err)
		}

		var debugOutput restyutil.InstrumentOutput
		if verbose && cfg.DebugDir != "" {
			debugOutput = restyutil.NewFilesystemOutput(cfg.DebugDir)
		}

		service = attendance.NewService(keyring.NewService(database), attendance.Options{
			AccountBaseUrl:  cfg.AccountBaseUrl,
			EmployeeBaseUrl: cfg.EmployeeBaseUrl,
			Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
			DebugOutput:     debugOutput,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging/instrumentation.")
}

func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}
