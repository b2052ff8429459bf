package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func kgbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kgb",
		Short: "Salary-step (KGB) operations",
	}
	cmd.AddCommand(kgbProcessCmd())
	cmd.AddCommand(kgbDueCmd())
	return cmd
}

func kgbProcessCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "proses",
		Short: "Run one advancement pass and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.services.KGB.ProcessDueAdvancements(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "maximum duration of the pass")
	return cmd
}

func kgbDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifikasi",
		Short: "Print overdue, due-today and due-soon salary steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			due, err := a.services.KGB.DueNotifications(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(due)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
