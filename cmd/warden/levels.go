package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/clifmt"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the risk-level lattice",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range engine.DefaultLevels() {
			auto := ""
			if p.AutoApprove {
				auto = clifmt.Success("auto-approve")
			}
			approver := string(p.RequiredApprover)
			if approver == "" {
				approver = "-"
			}
			fmt.Printf("%-10s %-10s %s  %s\n",
				clifmt.Risk(string(p.Level)), approver, auto, clifmt.Dim(p.Description))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}
