package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/clifmt"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage approval rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		rules, err := eng.Rules(ctx)
		if err != nil {
			return err
		}
		for _, r := range rules {
			auto := ""
			if r.AutoApprove {
				auto = clifmt.Success("auto")
			}
			pattern := r.Pattern
			if pattern == "" {
				pattern = "*"
			}
			fmt.Printf("%s  %-22s %-14s %s  %s  %s\n",
				clifmt.Key(r.ID), r.Name, r.ActionType, clifmt.Risk(string(r.Level)), pattern, auto)
		}
		return nil
	},
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		actionType, _ := cmd.Flags().GetString("action-type")
		level, _ := cmd.Flags().GetString("level")
		auto, _ := cmd.Flags().GetBool("auto-approve")
		pattern, _ := cmd.Flags().GetString("pattern")

		r, err := eng.CreateRule(ctx, engine.Rule{
			Name:        args[0],
			ActionType:  actionType,
			Level:       engine.RiskLevel(level),
			AutoApprove: auto,
			Pattern:     pattern,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Rule %s created\n", clifmt.Key(r.ID))
		return nil
	},
}

var rulesUpdateCmd = &cobra.Command{
	Use:   "update <rule-id>",
	Short: "Update a rule's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}

		var upd engine.RuleUpdate
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			upd.Name = &v
		}
		if cmd.Flags().Changed("action-type") {
			v, _ := cmd.Flags().GetString("action-type")
			upd.ActionType = &v
		}
		if cmd.Flags().Changed("level") {
			v, _ := cmd.Flags().GetString("level")
			lv := engine.RiskLevel(v)
			upd.Level = &lv
		}
		if cmd.Flags().Changed("auto-approve") {
			v, _ := cmd.Flags().GetBool("auto-approve")
			upd.AutoApprove = &v
		}
		if cmd.Flags().Changed("pattern") {
			v, _ := cmd.Flags().GetString("pattern")
			upd.Pattern = &v
		}

		r, err := eng.UpdateRule(ctx, args[0], upd)
		if err != nil {
			return err
		}
		fmt.Printf("Rule %s updated\n", clifmt.Key(r.ID))
		return nil
	},
}

var rulesRmCmd = &cobra.Command{
	Use:   "rm <rule-id>",
	Short: "Delete a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		if err := eng.DeleteRule(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(clifmt.Success("deleted"))
		return nil
	},
}

func init() {
	rulesAddCmd.Flags().String("action-type", "", "action type the rule targets (required)")
	rulesAddCmd.Flags().String("level", "low", "risk level: low|medium|high|critical")
	rulesAddCmd.Flags().Bool("auto-approve", false, "auto-approve matching actions")
	rulesAddCmd.Flags().String("pattern", "", "comma-separated path patterns (empty matches everything)")
	_ = rulesAddCmd.MarkFlagRequired("action-type")

	rulesUpdateCmd.Flags().String("name", "", "new rule name")
	rulesUpdateCmd.Flags().String("action-type", "", "new action type")
	rulesUpdateCmd.Flags().String("level", "", "new risk level")
	rulesUpdateCmd.Flags().Bool("auto-approve", false, "new auto-approve flag")
	rulesUpdateCmd.Flags().String("pattern", "", "new pattern")

	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesUpdateCmd, rulesRmCmd)
	rootCmd.AddCommand(rulesCmd)
}
