package main

import (
	"context"
	"fmt"

	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/config"
	"github.com/alexwoolford/neo4j-blue-green-arrow-etl/pkg/neo4jcatalog"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/spf13/cobra"
)

var listAliasesCmd = &cobra.Command{
	Use:   "list-aliases",
	Short: "Print the current alias -> database mapping",
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

		aliases, err := neo4jcatalog.New(driver).ListAliases(context.Background())
		if err != nil {
			return err
		}
		for alias, target := range aliases {
			fmt.Printf("%s -> %s\n", alias, target)
		}
		return nil
	},
}

func init() {
	listAliasesCmd.Flags().String("config", "/etc/supervisor/config.yaml", "Path to the YAML configuration file")
}
