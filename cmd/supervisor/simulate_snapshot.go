package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var simulateSnapshotCmd = &cobra.Command{
	Use:   "simulate-snapshot [tenant] [timestamp]",
	Short: "Write a structurally-complete snapshot directory skeleton for local scanner testing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		tenant, timestamp := args[0], args[1]

		snapshotDir := filepath.Join(root, tenant, timestamp)
		for _, sub := range []string{"nodes/person", "relationships/knows"} {
			dir := filepath.Join(snapshotDir, sub)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			placeholder := filepath.Join(dir, "part-00000.csv")
			if err := os.WriteFile(placeholder, []byte{}, 0o644); err != nil {
				return err
			}
		}

		fmt.Printf("wrote snapshot skeleton at %s\n", snapshotDir)
		return nil
	},
}

func init() {
	simulateSnapshotCmd.Flags().String("root", "./snapshots", "Snapshot root directory to write under")
}
