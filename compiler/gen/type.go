package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/schema/field"
)

// Import paths used by generated code.
const (
	crudgenPkg = "github.com/syssam/crudgen"
	crudPkg    = "github.com/syssam/crudgen/crud"
	dialectPkg = "github.com/syssam/crudgen/dialect"
	fieldPkg   = "github.com/syssam/crudgen/schema/field"
	graphPkg   = "github.com/syssam/crudgen/graph"
	mixinPkg   = "github.com/syssam/crudgen/schema/mixin"
	queryPkg   = "github.com/syssam/crudgen/query"
	uuidPkg    = "github.com/google/uuid"
)

// importNames holds the package names of the import paths above, so
// generated files import them without aliases.
var importNames = map[string]string{
	crudgenPkg: "crudgen",
	crudPkg:    "crud",
	dialectPkg: "dialect",
	fieldPkg:   "field",
	graphPkg:   "graph",
	mixinPkg:   "mixin",
	queryPkg:   "query",
	uuidPkg:    "uuid",
}

// Type is an entity to generate. It pairs the built descriptor with the
// schema it was loaded from.
type Type struct {
	*graph.Type
	Schema *load.Schema
}

// FileName returns the name of the generated file of the entity.
func (t *Type) FileName() string { return inflect.Underscore(t.Name) + ".go" }

// ClientName returns the name of the generated client type.
func (t *Type) ClientName() string { return t.Name + "Client" }

// FindByName returns the name of the sealed find selector interface.
func (t *Type) FindByName() string { return t.Name + "FindBy" }

// FindByVariant returns the name of the find selector variant of f.
func (t *Type) FindByVariant(f *graph.Field) string { return t.Name + "By" + f.VariantName() }

// FindFilterName returns the name of the find filter type.
func (t *Type) FindFilterName() string { return t.Name + "FindFilter" }

// ListFilterName returns the name of the list filter type.
func (t *Type) ListFilterName() string { return t.Name + "ListFilter" }

// ListAllFilterName returns the name of the list-all filter type.
func (t *Type) ListAllFilterName() string { return t.Name + "ListAllFilter" }

// TypeVar returns the name of the exported descriptor variable.
func (t *Type) TypeVar() string { return t.Name + "Type" }

// Mutable reports whether the entity gets mutating operations.
func (t *Type) Mutable() bool { return !t.View }

func (t *Type) schemaName() string { return inflect.CamelizeDownFirst(t.Name) + "Schema" }

func (t *Type) selector() string { return inflect.CamelizeDownFirst(t.Name) + "FindBy" }

func (t *Type) constructor() string { return "new" + t.Name }

// identifiers returns the top-level identifiers generated for the entity.
func (t *Type) identifiers() []string {
	ids := []string{
		t.Name, t.ClientName(), "New" + t.ClientName(), t.TypeVar(),
		t.ListFilterName(), t.ListAllFilterName(), t.schemaName(), t.constructor(),
	}
	if t.HasFind() {
		ids = append(ids, t.FindFilterName())
	}
	if by := t.FindByFields(); len(by) > 0 {
		ids = append(ids, t.FindByName())
		for _, f := range by {
			ids = append(ids, t.FindByVariant(f))
		}
	}
	return ids
}

// reserved holds the members of generated filter structs that entity
// fields cannot shadow.
var reserved = map[string]bool{
	"By":         true,
	"Order":      true,
	"Limit":      true,
	"Pagination": true,
	"Page":       true,
	"PageSize":   true,
}

func (t *Type) check() error {
	for _, f := range t.Fields() {
		if reserved[f.VariantName()] {
			return NewGenerationError(PhaseCheck, t.FileName(), fmt.Sprintf("field %q of %s conflicts with the generated filter member %s", f.Name, t.Name, f.VariantName()), nil)
		}
	}
	return nil
}

// goType returns the Go type of values of t.
func goType(t field.Type) *jen.Statement {
	switch t {
	case field.TypeTime:
		return jen.Qual("time", "Time")
	case field.TypeUUID:
		return jen.Qual(uuidPkg, "UUID")
	case field.TypeBytes:
		return jen.Index().Byte()
	default:
		return jen.Id(t.GoType())
	}
}

// nonZero returns the condition that x holds a non-zero value of type t.
func nonZero(t field.Type, x func() *jen.Statement) jen.Code {
	switch t {
	case field.TypeTime:
		return jen.Op("!").Add(x()).Dot("IsZero").Call()
	case field.TypeUUID:
		return x().Op("!=").Qual(uuidPkg, "Nil")
	case field.TypeBytes:
		return jen.Len(x()).Op(">").Lit(0)
	case field.TypeBool:
		return x()
	case field.TypeInt, field.TypeInt64, field.TypeFloat64:
		return x().Op("!=").Lit(0)
	default:
		return x().Op("!=").Lit("")
	}
}

// builders maps field types to their constructor in the schema/field
// package.
var builders = map[field.Type]string{
	field.TypeBool:    "Bool",
	field.TypeString:  "String",
	field.TypeText:    "Text",
	field.TypeInt:     "Int",
	field.TypeInt64:   "Int64",
	field.TypeFloat64: "Float64",
	field.TypeDecimal: "Decimal",
	field.TypeTime:    "Time",
	field.TypeEnum:    "Enum",
	field.TypeUUID:    "UUID",
	field.TypeBytes:   "Bytes",
}
