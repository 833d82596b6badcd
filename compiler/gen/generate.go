package gen

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/load"
)

// Names of the package-level generated files.
const (
	clientFile = "client.go"
	schemaFile = "schema.go"
)

// Generator writes the typed clients of a graph. Files are rendered in
// parallel, bounded by Config.Workers.
type Generator struct {
	graph *Graph
	w     *writer
}

// NewGenerator returns a generator for g.
func NewGenerator(g *Graph) *Generator {
	return &Generator{graph: g, w: newWriter(g.Config)}
}

// Generate writes one file per entity, schema.go and client.go to the
// target directory.
func (g *Generator) Generate(ctx context.Context) error {
	files := make([]fileTask, 0, len(g.graph.Nodes)+2)
	for _, t := range g.graph.Nodes {
		files = append(files, fileTask{
			name:  t.FileName(),
			build: func() *jen.File { return g.entityFile(t) },
		})
	}
	files = append(files,
		fileTask{name: schemaFile, build: g.schemaFile},
		fileTask{name: clientFile, build: g.clientFile},
	)
	return g.w.writeAll(ctx, files)
}

// Files returns the names of the files Generate writes.
func (g *Generator) Files() []string {
	names := make([]string, 0, len(g.graph.Nodes)+2)
	for _, t := range g.graph.Nodes {
		names = append(names, t.FileName())
	}
	return append(names, schemaFile, clientFile)
}

// Metrics returns the metrics of the last Generate call.
func (g *Generator) Metrics() WriterMetrics {
	g.w.mu.Lock()
	defer g.w.mu.Unlock()
	return g.w.metrics
}

// Generate builds the graph of schemas and writes its typed clients.
func Generate(ctx context.Context, cfg *Config, schemas ...*load.Schema) error {
	g, err := NewGraph(cfg, schemas...)
	if err != nil {
		return err
	}
	return NewGenerator(g).Generate(ctx)
}
