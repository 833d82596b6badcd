package gen

import (
	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/graph"
)

// Graph holds the entities to generate along with the configuration.
type Graph struct {
	*Config
	// Nodes holds the entities in schema order.
	Nodes []*Type
	// Schema holds the built descriptors.
	Schema *graph.Graph
}

// NewGraph builds the descriptors of schemas and checks that the
// generated identifiers do not collide.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config is required")
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	if len(schemas) == 0 {
		return nil, NewConfigError("Schemas", nil, "no entities to generate")
	}
	file := &load.File{Package: c.Package, Entities: schemas}
	if err := file.Validate(); err != nil {
		return nil, NewGenerationError(PhaseCheck, "", "invalid schema", err)
	}
	sg, err := file.Graph()
	if err != nil {
		return nil, NewGenerationError(PhaseCheck, "", "invalid schema", err)
	}
	g := &Graph{Config: c, Schema: sg}
	seen := map[string]string{
		"Client":    "package",
		"NewClient": "package",
		"Graph":     "package",
		"mustType":  "package",
	}
	for i, s := range schemas {
		t := &Type{Type: sg.Types[i], Schema: s}
		if err := t.check(); err != nil {
			return nil, err
		}
		if name := t.FileName(); name == clientFile || name == schemaFile {
			return nil, NewGenerationError(PhaseCheck, name, "entity "+t.Name+" conflicts with a package file", nil)
		}
		for _, id := range t.identifiers() {
			if owner, ok := seen[id]; ok {
				return nil, NewGenerationError(PhaseCheck, t.FileName(), "identifier "+id+" of "+t.Name+" is already declared by "+owner, nil)
			}
			seen[id] = t.Name
		}
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}
