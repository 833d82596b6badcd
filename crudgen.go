// Package crudgen declares entities whose CRUD and filtered-query statements
// are derived from per-field capability flags.
//
// An entity is a Go type that embeds Schema (or View for read-only
// entities) and lists its fields:
//
//	type Tag struct{ crudgen.Schema }
//
//	func (Tag) Mixin() []crudgen.Mixin {
//		return []crudgen.Mixin{mixin.ID{}, mixin.SoftDelete{}}
//	}
//
//	func (Tag) Fields() []crudgen.Field {
//		return []crudgen.Field{
//			field.String("name").Find().ListOptLike().Exists(),
//			field.Int64("user_id").List(),
//		}
//	}
//
// Schemas are compiled into descriptors by the graph package, turned into
// statements by the query package and executed by the crud package.
package crudgen

import "github.com/syssam/crudgen/schema/field"

type (
	// The Interface type describes the requirements for an exported type
	// defined in the schema package. It functions as the interface between
	// the user's schema types and the descriptor builder.
	Interface interface {
		// Type is a dummy method, that is used in the schema declaration
		// for identifying a schema type.
		Type()
		// Fields returns the fields of the schema.
		Fields() []Field
		// Mixin returns an optional list of Mixin to extend the schema.
		// Mixin fields precede the schema fields, in mixin order.
		Mixin() []Mixin
		// Config returns an optional configuration of the schema.
		Config() Config
	}

	// A Field interface returns a field descriptor for vertex fields/properties.
	// The usage for the interface is as follows:
	//
	//	func (T) Fields() []crudgen.Field {
	//		return []crudgen.Field{
	//			field.Int("int"),
	//		}
	//	}
	Field interface {
		Descriptor() *field.Descriptor
	}

	// The Mixin type describes a set of methods that can extend a schema.
	Mixin interface {
		Fields() []Field
	}

	// Config holds the configuration of a schema.
	Config struct {
		// Table overrides the table name derived from the type name.
		Table string
		// PrimaryKey names the primary key column when no field is
		// marked with PrimaryKey and the column is not "id".
		PrimaryKey string
	}

	// Schema is the default implementation for the schema Interface.
	// It can be embedded in end-user schemas as follows:
	//
	//	type T struct {
	//		crudgen.Schema
	//	}
	Schema struct {
		Interface
	}

	// View is the default implementation for the schema Viewer interface.
	// Entities that embed View only get read operations.
	//
	//	type V struct {
	//		crudgen.View
	//	}
	View struct {
		Schema
	}

	// Viewer is implemented by read-only schemas.
	Viewer interface {
		Interface
		view()
	}
)

// Fields of the schema.
func (Schema) Fields() []Field { return nil }

// Mixin of the schema.
func (Schema) Mixin() []Mixin { return nil }

// Config of the schema.
func (Schema) Config() Config { return Config{} }

// Type is a marker method for schema types.
func (Schema) Type() {}

func (View) view() {}

// IsView reports whether s is a read-only schema.
func IsView(s Interface) bool {
	_, ok := s.(Viewer)
	return ok
}
