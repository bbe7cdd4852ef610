package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/clifmt"
	"github.com/quailyquaily/warden/internal/strutil"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List approval records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		f, err := historyFilterFromFlags(cmd)
		if err != nil {
			return err
		}
		records, err := eng.History(ctx, f)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Printf("%s  %s  %s  %s  by %s (%s)  %s\n",
				clifmt.Key(r.ID),
				clifmt.Status(string(r.Decision)),
				clifmt.Risk(string(r.Level)),
				r.ActionType,
				r.Approver, r.Role,
				r.CreatedAt.Local().Format(time.RFC3339),
			)
			if r.Comments != "" {
				fmt.Printf("    %s\n", clifmt.Dim(strutil.Ellipsize(r.Comments, 120)))
			}
		}
		return nil
	},
}

var escalationsCmd = &cobra.Command{
	Use:   "escalations",
	Short: "List escalation records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}
		actionID, _ := cmd.Flags().GetString("action-id")
		includeResolved, _ := cmd.Flags().GetBool("resolved")
		limit, _ := cmd.Flags().GetInt("limit")

		escs, err := eng.Escalations(ctx, engine.EscalationFilter{
			ActionID:        actionID,
			IncludeResolved: includeResolved,
			Limit:           limit,
		})
		if err != nil {
			return err
		}
		for _, e := range escs {
			state := clifmt.Warn("open")
			if e.Resolved {
				state = clifmt.Success("resolved")
			}
			fmt.Printf("%s  %s  %s -> %s  by %s  %s\n",
				clifmt.Key(e.ID), state, clifmt.Risk(string(e.FromLevel)), e.EscalatedTo,
				e.EscalatedBy, e.CreatedAt.Local().Format(time.RFC3339))
			if e.Reason != "" {
				fmt.Printf("    %s\n", clifmt.Dim(strutil.Ellipsize(e.Reason, 120)))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("action-type", "", "filter by action type")
	historyCmd.Flags().String("level", "", "filter by risk level")
	historyCmd.Flags().String("approver", "", "filter by approver identity")
	historyCmd.Flags().String("role", "", "filter by approver role")
	historyCmd.Flags().String("since", "", "only records at or after this RFC3339 time")
	historyCmd.Flags().String("until", "", "only records at or before this RFC3339 time")
	historyCmd.Flags().Int("limit", 50, "max records (0 = all)")

	escalationsCmd.Flags().String("action-id", "", "filter by action id")
	escalationsCmd.Flags().Bool("resolved", false, "include resolved escalations")
	escalationsCmd.Flags().Int("limit", 50, "max records (0 = all)")

	rootCmd.AddCommand(historyCmd, escalationsCmd)
}

func historyFilterFromFlags(cmd *cobra.Command) (engine.HistoryFilter, error) {
	var f engine.HistoryFilter
	f.ActionType, _ = cmd.Flags().GetString("action-type")
	level, _ := cmd.Flags().GetString("level")
	f.Level = engine.RiskLevel(level)
	f.Approver, _ = cmd.Flags().GetString("approver")
	role, _ := cmd.Flags().GetString("role")
	f.Role = engine.ApproverRole(role)
	f.Limit, _ = cmd.Flags().GetInt("limit")

	if s, _ := cmd.Flags().GetString("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, fmt.Errorf("parse --since: %w", err)
		}
		f.Since = t
	}
	if s, _ := cmd.Flags().GetString("until"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return f, fmt.Errorf("parse --until: %w", err)
		}
		f.Until = t
	}
	return f, nil
}
