package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/clifmt"
)

var assessCmd = &cobra.Command{
	Use:   "assess <action-type>",
	Short: "Classify an intended action by risk",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssess,
}

func init() {
	assessCmd.Flags().String("description", "", "free-text description of the action")
	assessCmd.Flags().String("path", "", "path the action touches")
	assessCmd.Flags().String("action-id", "", "create an approval for this action id when the verdict requires one")
	assessCmd.Flags().String("bundle", "", "bundle id for the created approval")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	eng, err := engineFromViper(ctx)
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	path, _ := cmd.Flags().GetString("path")

	v, err := eng.AssessRisk(ctx, args[0], engine.ActionInput{Description: description, Path: path})
	if err != nil {
		return err
	}

	fmt.Println(clifmt.Headerf("Risk verdict"))
	fmt.Printf("  level:         %s\n", clifmt.Risk(string(v.Level)))
	fmt.Printf("  auto-approve:  %v\n", v.AutoApprove)
	if v.RequiredApprover != "" {
		fmt.Printf("  approver:      %s\n", v.RequiredApprover)
	}
	if v.MatchedRule != nil {
		fmt.Printf("  matched rule:  %s (%s)\n", v.MatchedRule.Name, v.MatchedRule.ID)
	}
	for _, r := range v.Reasons {
		fmt.Printf("  - %s\n", clifmt.Dim(r))
	}

	actionID, _ := cmd.Flags().GetString("action-id")
	if v.AutoApprove || actionID == "" {
		return nil
	}

	bundleID, _ := cmd.Flags().GetString("bundle")
	it, err := eng.CreateApproval(ctx, engine.CreateApprovalRequest{
		ActionID:    actionID,
		ActionType:  args[0],
		Description: description,
		Level:       v.Level,
		BundleID:    bundleID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nApproval %s created (%s)\n", clifmt.Key(it.ID), clifmt.Status(string(it.Status)))
	return nil
}
