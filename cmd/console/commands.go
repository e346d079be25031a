package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/dummydata/internal/app"
	"github.com/Domenick1991/dummydata/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	tableName string
	count     int
	reset     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Insert dummy rows into one table",
	Example: `  dummy generate --table bookings --count 100
  dummy generate --table bookings --count 100 --reset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *app.Deps) error {
			res, err := deps.Dummy.Generate(ctx, tableName, count, mode())
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		})
	},
}

var generateAllCmd = &cobra.Command{
	Use:   "generate-all",
	Short: "Insert dummy rows into every known table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *app.Deps) error {
			results, err := deps.Dummy.GenerateAll(ctx, count, mode())
			for _, res := range results {
				printResult(res)
			}
			return err
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the rows of a table as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *app.Deps) error {
			rows, err := deps.Dummy.Show(ctx, tableName)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		})
	},
}

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the CREATE TABLE statement of a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeps(cmd, func(ctx context.Context, deps *app.Deps) error {
			ddl, err := deps.Schema.DDL(ctx, tableName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ddl)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, showCmd, ddlCmd} {
		c.Flags().StringVarP(&tableName, "table", "t", "", "table name")
		c.MarkFlagRequired("table")
	}
	for _, c := range []*cobra.Command{generateCmd, generateAllCmd} {
		c.Flags().IntVarP(&count, "count", "n", 10, "number of rows per table")
		c.Flags().BoolVar(&reset, "reset", false, "delete existing rows first")
	}

	rootCmd.AddCommand(generateCmd, generateAllCmd, showCmd, ddlCmd)
}

func mode() domain.Mode {
	if reset {
		return domain.ModeReset
	}
	return domain.ModeAppend
}

func printResult(res domain.GenerationResult) {
	color.New(color.FgGreen).Printf("✓ %s: %d rows inserted (%s)\n", res.Table, res.Inserted, res.Mode)
}
