package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/query"
)

func (a *app) sqlCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sql [entity...]",
		Short: "Print the statements of the schema entities",
		Long: `Sql prints every statement template derived for the given entities, or
for all of them, in the configured dialect. Filtered statements are printed
with every filter active.`,
		Example: `  crudgen sql Tag --dialect mysql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.types(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for i, t := range types {
				if i > 0 {
					fmt.Fprintln(w)
				}
				g, err := query.New(t, a.cfg.Dialect)
				if err != nil {
					return err
				}
				printStatements(w, g)
			}
			return nil
		},
	}
}

// types returns the entity types of the schema file with the given names,
// or all of them in schema order.
func (a *app) types(names []string) ([]*graph.Type, error) {
	f, err := a.load()
	if err != nil {
		return nil, err
	}
	g, err := f.Graph()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return g.Types, nil
	}
	types := make([]*graph.Type, 0, len(names))
	for _, name := range names {
		t, ok := g.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown entity %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

func printStatements(w io.Writer, g *query.Generator) {
	t := g.Type()
	fmt.Fprintf(w, "-- %s (%s)\n", t.Name, t.Table)
	stmt := func(name, sql string) {
		fmt.Fprintf(w, "%s: %s\n", name, sql)
	}
	if op := g.Insert(); op != nil {
		stmt("insert", op.SQL())
	}
	if op := g.Update(); op != nil {
		stmt("update", op.SQL())
	}
	for _, op := range g.SelfUpdates() {
		stmt("update_"+op.Field().Name, op.SQL())
	}
	if ops := g.Delete(); ops != nil {
		stmt("del", ops.Del.SQL())
		if ops.Restore != nil {
			stmt("restore", ops.Restore.SQL())
		}
		stmt("real_del", ops.RealDel.SQL())
	}
	for _, op := range g.ExistsOps() {
		stmt(op.Field().Name+"_is_exists", op.SQL())
		stmt(op.Field().Name+"_is_exists_exclude", op.ExcludeSQL())
	}
	if op := g.Find(); op != nil {
		stmt("find", op.Template())
	}
	stmt("list", g.List().Template())
	stmt("list_all", g.ListAll().Template())
	stmt("count", g.Count().SQL)
}
