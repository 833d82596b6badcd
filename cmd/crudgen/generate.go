package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/internal/config"
)

func (a *app) generateCommand() *cobra.Command {
	var (
		watch bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate typed clients from the schema file",
		Long: `Generate writes one file per entity, plus schema.go and client.go, into
the output directory. Existing files without the generated header are not
overwritten unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run := func() error { return a.generate(cmd.Context(), cmd.OutOrStdout(), force) }
			if !watch {
				return run()
			}
			return a.watch(cmd.Context(), a.cfg.Schema, run)
		},
	}
	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().String("package", "", "generated package name (default: schema package or base of --out)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the schema file changes")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite files that were not generated by crudgen")
	a.bind(cmd.Flags(), map[string]string{
		"out":     config.KeyOut,
		"package": config.KeyPackage,
	})
	return cmd
}

func (a *app) generate(ctx context.Context, w io.Writer, force bool) error {
	start := time.Now()
	f, err := a.load()
	if err != nil {
		return err
	}
	opts := []gen.Option{gen.WithTarget(a.cfg.Out), gen.WithFs(a.fs), gen.WithForce(force)}
	switch {
	case a.cfg.Package != "":
		opts = append(opts, gen.WithPackage(a.cfg.Package))
	case f.Package != "":
		opts = append(opts, gen.WithPackage(f.Package))
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	g, err := gen.NewGraph(cfg, f.Entities...)
	if err != nil {
		return err
	}
	generator := gen.NewGenerator(g)
	if err := generator.Generate(ctx); err != nil {
		return err
	}
	m := generator.Metrics()
	a.logger.InfoContext(ctx, "generated",
		"schema", a.cfg.Schema,
		"out", a.cfg.Out,
		"package", cfg.Package,
		"files", m.FilesGenerated,
		"bytes", m.TotalBytes,
		"render", m.RenderTime,
		"format", m.FormatTime,
		"elapsed", time.Since(start),
	)
	fmt.Fprintf(w, "Generated %d files in %s\n", m.FilesGenerated, a.cfg.Out)
	return nil
}
