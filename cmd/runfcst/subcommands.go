package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/driver"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/fcst"
	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/journal"
)

// cycleLayouts are the ISO-8601 forms accepted for --cycle, from most to
// least precise. Workflow engines commonly pass hour precision (2024-07-15T18).
var cycleLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
}

func parseCycle(s string) (time.Time, error) {
	for _, layout := range cycleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid cycle %q: expected ISO-8601 (e.g. 2024-07-15T18)", s)
}

// Run the forecast step
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the forecast model driver and publish its outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config-file")
			cycleStr, _ := cmd.Flags().GetString("cycle")
			keyPathStr, _ := cmd.Flags().GetString("key-path")
			member, _ := cmd.Flags().GetString("member")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			journalPath, _ := cmd.Flags().GetString("journal")

			cycle, err := parseCycle(cycleStr)
			if err != nil {
				return err
			}
			if len(member) != 3 {
				return fmt.Errorf("invalid member %q: expected a 3-character identifier", member)
			}
			keyPath := strings.Split(keyPathStr, ".")

			opts := fcst.Options{DryRun: dryRun}
			if journalPath != "" {
				j, err := journal.Open(journalPath)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer j.Close()
				opts.Journal = j
			}

			rc := fcst.RunContext{
				ConfigFile: configFile,
				Cycle:      cycle,
				KeyPath:    keyPath,
				Member:     member,
			}
			ctrl := fcst.NewController(rc, driver.Default(), opts)
			return ctrl.Run(cmd.Context())
		},
	}
	cmd.Flags().StringP("config-file", "c", "", "path to experiment config file")
	cmd.Flags().String("cycle", "", "cycle in ISO-8601 format (e.g. 2024-07-15T18)")
	cmd.Flags().String("key-path", "", "dot-separated path of keys leading to the driver's config block")
	cmd.Flags().String("member", "000", "3-digit ensemble member number")
	cmd.Flags().Bool("dry-run", false, "resolve config and log the plan without running the driver")
	cmd.Flags().String("journal", "", "path to run-journal database (optional)")
	_ = cmd.MarkFlagRequired("config-file")
	_ = cmd.MarkFlagRequired("cycle")
	_ = cmd.MarkFlagRequired("key-path")
	return cmd
}

// Show recent run records
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent orchestration runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			journalPath, _ := cmd.Flags().GetString("journal")
			limit, _ := cmd.Flags().GetInt("limit")
			j, err := journal.Open(journalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()
			records, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, rec := range records {
				finished := "-"
				if rec.FinishedAt != nil {
					finished = rec.FinishedAt.Format(time.RFC3339)
				}
				fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.Cycle.Format("2006-01-02T15"), rec.Member, rec.Model, rec.Status, finished, rec.RunDir)
			}
			return nil
		},
	}
	cmd.Flags().String("journal", "", "path to run-journal database")
	cmd.Flags().Int("limit", 20, "maximum number of records to show")
	_ = cmd.MarkFlagRequired("journal")
	return cmd
}
