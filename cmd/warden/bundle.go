package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/clifmt"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Decide every request in a bundle at once",
}

var bundleListCmd = &cobra.Command{
	Use:   "list <bundle-id>",
	Short: "List a bundle's requests, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		items, err := eng.BundleApprovals(ctx, args[0])
		if err != nil {
			return err
		}
		for _, it := range items {
			printItem(it)
		}
		return nil
	},
}

var bundleApproveCmd = &cobra.Command{
	Use:   "approve <bundle-id>",
	Short: "Approve every request in a bundle, honoring vetoes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBundleDecision(cmd, args[0], true)
	},
}

var bundleRejectCmd = &cobra.Command{
	Use:   "reject <bundle-id>",
	Short: "Reject every request in a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBundleDecision(cmd, args[0], false)
	},
}

func init() {
	for _, c := range []*cobra.Command{bundleApproveCmd, bundleRejectCmd} {
		c.Flags().String("as", "", "approver identity (required)")
		c.Flags().String("role", string(engine.RoleUser), "approver role: lead|manager|vp|user")
		c.Flags().String("comments", "", "decision comments")
		_ = c.MarkFlagRequired("as")
	}
	bundleApproveCmd.Flags().StringSlice("veto", nil, "approval ids to skip")

	bundleCmd.AddCommand(bundleListCmd, bundleApproveCmd, bundleRejectCmd)
	rootCmd.AddCommand(bundleCmd)
}

func runBundleDecision(cmd *cobra.Command, bundleID string, approve bool) error {
	ctx := cmd.Context()
	eng, err := engineFromViper(ctx)
	if err != nil {
		return err
	}
	approver, _ := cmd.Flags().GetString("as")
	role, _ := cmd.Flags().GetString("role")
	comments, _ := cmd.Flags().GetString("comments")
	d := engine.Decision{Approver: approver, Role: engine.ApproverRole(role), Comments: comments}

	var results []engine.BundleResult
	if approve {
		vetoes, _ := cmd.Flags().GetStringSlice("veto")
		results, err = eng.BulkApprove(ctx, bundleID, d, vetoes)
	} else {
		results, err = eng.BulkReject(ctx, bundleID, d)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		switch r.Outcome {
		case engine.OutcomeFailed:
			fmt.Printf("%s  %s  %v\n", r.ApprovalID, clifmt.Danger(string(r.Outcome)), r.Err)
		case engine.OutcomeVetoed:
			fmt.Printf("%s  %s\n", r.ApprovalID, clifmt.Warn(string(r.Outcome)))
		default:
			fmt.Printf("%s  %s\n", r.ApprovalID, clifmt.Status(string(r.Outcome)))
		}
	}
	return nil
}
