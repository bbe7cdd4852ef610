package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/clifmt"
	"github.com/quailyquaily/warden/internal/strutil"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List approvals awaiting a decision, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		items, err := eng.PendingApprovals(ctx, limit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Nothing pending.")
			return nil
		}
		for _, it := range items {
			printItem(it)
		}
		return nil
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <approval-id>",
	Short: "Approve a pending or escalated request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecision(cmd, args[0], true)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <approval-id>",
	Short: "Reject a pending or escalated request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecision(cmd, args[0], false)
	},
}

var escalateCmd = &cobra.Command{
	Use:   "escalate <approval-id>",
	Short: "Route a request to higher authority",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		to, _ := cmd.Flags().GetString("to")
		reason, _ := cmd.Flags().GetString("reason")
		by, _ := cmd.Flags().GetString("by")

		res, err := eng.Escalate(ctx, args[0], engine.ApproverRole(to), reason, by)
		if err != nil {
			return err
		}
		fmt.Printf("Escalation %s recorded; risk level is now %s\n",
			clifmt.Key(res.Escalation.ID), clifmt.Risk(string(res.NewLevel)))
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <escalation-id>",
	Short: "Mark an escalation record resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		if err := eng.ResolveEscalation(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(clifmt.Success("resolved"))
		return nil
	},
}

func init() {
	pendingCmd.Flags().Int("limit", 20, "max items to list (0 = all)")

	for _, c := range []*cobra.Command{approveCmd, rejectCmd} {
		c.Flags().String("as", "", "approver identity (required)")
		c.Flags().String("role", string(engine.RoleUser), "approver role: lead|manager|vp|user")
		c.Flags().String("comments", "", "decision comments (required for critical items and vp decisions)")
		_ = c.MarkFlagRequired("as")
	}

	escalateCmd.Flags().String("to", "", "target role: lead|manager|vp (required)")
	escalateCmd.Flags().String("reason", "", "why the request is being escalated")
	escalateCmd.Flags().String("by", "", "escalating identity (required)")
	_ = escalateCmd.MarkFlagRequired("to")
	_ = escalateCmd.MarkFlagRequired("by")

	rootCmd.AddCommand(pendingCmd, approveCmd, rejectCmd, escalateCmd, resolveCmd)
}

func runDecision(cmd *cobra.Command, id string, approve bool) error {
	ctx := cmd.Context()
	eng, err := engineFromViper(ctx)
	if err != nil {
		return err
	}
	approver, _ := cmd.Flags().GetString("as")
	role, _ := cmd.Flags().GetString("role")
	comments, _ := cmd.Flags().GetString("comments")

	d := engine.Decision{Approver: approver, Role: engine.ApproverRole(role), Comments: comments}

	var rec engine.Record
	if approve {
		rec, err = eng.Approve(ctx, id, d)
	} else {
		rec, err = eng.Reject(ctx, id, d)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s as %s (record %s)\n", id, clifmt.Status(string(rec.Decision)), rec.ID)
	return nil
}

func printItem(it engine.QueueItem) {
	fmt.Printf("%s  %s  %s  %s  %s\n",
		clifmt.Key(it.ID),
		clifmt.Risk(string(it.Level)),
		clifmt.Status(string(it.Status)),
		it.ActionType,
		it.CreatedAt.Local().Format(time.RFC3339),
	)
	if it.Description != "" {
		fmt.Printf("    %s\n", clifmt.Dim(strutil.Ellipsize(it.Description, 120)))
	}
	if it.BundleID != "" {
		fmt.Printf("    bundle: %s\n", clifmt.Dim(it.BundleID))
	}
}
