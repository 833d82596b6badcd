package graph

import (
	"fmt"
	"reflect"

	"github.com/syssam/crudgen"
)

// Graph holds the descriptors of a set of entities. It is built once by
// New and is safe for concurrent reads afterwards.
type Graph struct {
	// Types holds the entity types in registration order.
	Types []*Type

	byName  map[string]*Type
	byTable map[string]*Type
	byGo    map[reflect.Type]*Type
}

// New builds a Graph from the given schemas. All schema errors are
// collected and returned together.
func New(schemas ...crudgen.Interface) (*Graph, error) {
	g := &Graph{
		byName:  make(map[string]*Type, len(schemas)),
		byTable: make(map[string]*Type, len(schemas)),
		byGo:    make(map[reflect.Type]*Type, len(schemas)),
	}
	var errs []error
	for _, s := range schemas {
		t, err := NewType(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := g.add(t); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := s.(Namer); !ok {
			g.byGo[indirect(reflect.TypeOf(s))] = t
		}
	}
	if err := crudgen.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNew is like New but panics on error.
func MustNew(schemas ...crudgen.Interface) *Graph {
	g, err := New(schemas...)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) add(t *Type) error {
	if _, ok := g.byName[t.Name]; ok {
		return NewSchemaError(t.Name, "", "duplicate entity name", nil)
	}
	if prev, ok := g.byTable[t.Table]; ok {
		return NewSchemaError(t.Name, "", fmt.Sprintf("table %q already used by %s", t.Table, prev.Name), nil)
	}
	g.byName[t.Name] = t
	g.byTable[t.Table] = t
	g.Types = append(g.Types, t)
	return nil
}

// Lookup returns the type with the given entity name.
func (g *Graph) Lookup(name string) (*Type, bool) {
	t, ok := g.byName[name]
	return t, ok
}

// TypeOf returns the type built from the given schema value.
func (g *Graph) TypeOf(s crudgen.Interface) (*Type, bool) {
	if n, ok := s.(Namer); ok {
		return g.Lookup(n.Name())
	}
	t, ok := g.byGo[indirect(reflect.TypeOf(s))]
	return t, ok
}
