package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/syssam/crudgen/crud"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/dialect/sql/schema"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/internal/config"
)

func (a *app) checkCommand() *cobra.Command {
	var debug, strict bool
	cmd := &cobra.Command{
		Use:   "check [entity...]",
		Short: "Check the schema entities against a database",
		Long: `Check connects to the configured database, compares the columns of every
entity table with the entity fields and counts the rows of the table,
soft-deleted rows included. A field without a column is an error; a column
without a field is a warning unless --strict is set.`,
		Example: `  CRUDGEN_DSN=postgres://localhost/shop crudgen check
  crudgen check --dialect sqlite --dsn ./shop.db Tag`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DSN == "" {
				return fmt.Errorf("check: missing dsn; set --dsn or %s_DSN", config.EnvPrefix)
			}
			types, err := a.types(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			drv, err := sql.OpenDriver(a.cfg.Dialect, a.cfg.Driver, a.cfg.DSN)
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			defer drv.Close()
			if err := drv.Ping(ctx); err != nil {
				return fmt.Errorf("check: %w", err)
			}
			stats := sql.NewStatsDriver(drv,
				sql.WithSlowThreshold(a.cfg.SlowThreshold),
				sql.WithSlowQueryLog(a.logger),
			)
			var conn dialect.Driver = stats
			if debug {
				conn = sql.NewDebugDriver(drv, a.logger)
			}

			var (
				result = &schema.ValidationResult{}
				opts   []schema.ValidateOption
			)
			if strict {
				opts = append(opts, schema.Strict())
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ENTITY\tTABLE\tROWS")
			for _, t := range types {
				n, res, err := a.inspect(ctx, conn, t, opts...)
				if err != nil {
					w.Flush()
					return err
				}
				result.Merge(res)
				fmt.Fprintf(w, "%s\t%s\t%d\n", t.Name, t.Table, n)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			if !debug {
				fmt.Fprintln(cmd.OutOrStdout(), stats.QueryStats().Stats())
			}
			if result.HasErrors() {
				return fmt.Errorf("check: %d schema errors", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().String("dsn", "", "data source name of the database")
	cmd.Flags().String("driver", "", "database/sql driver: postgres, pgx, mysql or sqlite (default: the dialect)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log every statement instead of collecting statistics")
	cmd.Flags().BoolVar(&strict, "strict", false, "report table columns that are not entity fields as errors")
	a.bind(cmd.Flags(), map[string]string{
		"dsn":    config.KeyDSN,
		"driver": config.KeyDriver,
	})
	return cmd
}

// inspect validates the columns of the table of t and counts its rows
// through the generated count statement.
func (a *app) inspect(ctx context.Context, drv dialect.Driver, t *graph.Type, opts ...schema.ValidateOption) (int64, *schema.ValidationResult, error) {
	columns, err := schema.Columns(ctx, drv, t.Table)
	if err != nil {
		return 0, nil, fmt.Errorf("check %s: %w", t.Name, err)
	}
	result := schema.ValidateTable(t, columns, opts...)
	r, err := crud.NewReader(drv, t, crud.WithLogger(a.logger))
	if err != nil {
		return 0, nil, err
	}
	n, err := r.Count(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("check %s: %w", t.Name, err)
	}
	return n, result, nil
}
