package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/config"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/log"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/neo4jcatalog"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/supervisor"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the supervisor: scan, load and cut over snapshots until terminated",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		statusPath, _ := cmd.Flags().GetString("status-file")
		httpAddr, _ := cmd.Flags().GetString("http-addr")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
		if err != nil {
			return fmt.Errorf("connect to database server: %w", err)
		}
		defer driver.Close(context.Background())

		adapter := neo4jcatalog.New(driver)
		sup, err := supervisor.New(cfg, &unimplementedLoader{}, adapter, adapter)
		if err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		stopCh := make(chan struct{})

		go func() {
			<-sigCh
			log.Logger.Info().Msg("shutdown signal received")
			close(stopCh)
			<-sigCh // a second signal exits immediately (spec §4.5 step 5)
			log.Logger.Warn().Msg("second shutdown signal received, exiting immediately")
			os.Exit(1)
		}()

		return sup.Run(context.Background(), stopCh, statusPath, httpAddr)
	},
}

func init() {
	runCmd.Flags().String("config", "/etc/supervisor/config.yaml", "Path to the YAML configuration file")
	runCmd.Flags().String("status-file", "/var/run/supervisor/status.json", "Path to the status file, rewritten atomically every 5s")
	runCmd.Flags().String("http-addr", ":8080", "Address for the /status and /metrics HTTP endpoints (empty disables)")
}

// unimplementedLoader is the Loader seam's default wiring: the bulk
// columnar-to-graph ingest path is explicitly out of scope (spec §1
// Non-goals). A deployment links a real Loader in by building its own
// main package against pkg/supervisor.
type unimplementedLoader struct{}

func (unimplementedLoader) Load(ctx context.Context, tenant string, timestamp int64, dataPath string) error {
	return fmt.Errorf("no bulk loader configured: wire a catalog.Loader implementation for %s/%d at %s", tenant, timestamp, dataPath)
}
