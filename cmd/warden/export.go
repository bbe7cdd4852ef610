package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <history|escalations>",
	Short: "Export records for reporting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		eng, err := engineFromViper(ctx)
		if err != nil {
			return err
		}

		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		switch args[0] {
		case "history":
			f, err := historyFilterFromFlags(cmd)
			if err != nil {
				return err
			}
			records, err := eng.History(ctx, f)
			if err != nil {
				return err
			}
			return export.History(os.Stdout, format, records)
		case "escalations":
			escs, err := eng.Escalations(ctx, engine.EscalationFilter{IncludeResolved: true})
			if err != nil {
				return err
			}
			return export.Escalations(os.Stdout, format, escs)
		default:
			return cmd.Help()
		}
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "output format: json|yaml|csv")
	exportCmd.Flags().String("action-type", "", "filter by action type")
	exportCmd.Flags().String("level", "", "filter by risk level")
	exportCmd.Flags().String("approver", "", "filter by approver identity")
	exportCmd.Flags().String("role", "", "filter by approver role")
	exportCmd.Flags().String("since", "", "only records at or after this RFC3339 time")
	exportCmd.Flags().String("until", "", "only records at or before this RFC3339 time")
	exportCmd.Flags().Int("limit", 0, "max records (0 = all)")
	rootCmd.AddCommand(exportCmd)
}
