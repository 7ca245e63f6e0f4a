package main

import (
	"context"
	"fmt"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/config"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/log"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/neo4jcatalog"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/retention"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [tenant]",
	Short: "Run one retention GC pass against the live catalog, for a tenant or every tenant with an alias",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
		if err != nil {
			return fmt.Errorf("connect to database server: %w", err)
		}
		defer driver.Close(context.Background())

		adapter := neo4jcatalog.New(driver)
		gc := retention.New(adapter, cfg.RetentionKeep, log.WithComponent("cleanup"))

		ctx := context.Background()
		aliases, err := adapter.ListAliases(ctx)
		if err != nil {
			return err
		}

		tenants := args
		if len(tenants) == 0 {
			for tenant := range aliases {
				tenants = append(tenants, tenant)
			}
		}

		for _, tenant := range tenants {
			if err := gc.Run(ctx, tenant, aliases[tenant]); err != nil {
				return fmt.Errorf("cleanup %s: %w", tenant, err)
			}
			fmt.Printf("cleaned up %s\n", tenant)
		}
		return nil
	},
}

func init() {
	cleanupCmd.Flags().String("config", "/etc/supervisor/config.yaml", "Path to the YAML configuration file")
}
