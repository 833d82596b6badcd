package load

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/schema/field"
	"github.com/syssam/crudgen/schema/mixin"
)

// Schema represents an entity that was loaded from a schema file.
type Schema struct {
	Name       string   `yaml:"name"`
	Table      string   `yaml:"table,omitempty"`
	PrimaryKey string   `yaml:"primary_key,omitempty"`
	View       bool     `yaml:"view,omitempty"`
	Comment    string   `yaml:"comment,omitempty"`
	Mixin      []string `yaml:"mixin,omitempty"`
	Fields     []*Field `yaml:"fields,omitempty"`
}

// Field represents an entity field that was loaded from a schema file.
type Field struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Values  []string `yaml:"values,omitempty"`
	Comment string   `yaml:"comment,omitempty"`

	PrimaryKey bool `yaml:"primary_key,omitempty"`
	SoftDelete bool `yaml:"soft_delete,omitempty"`
	SkipInsert bool `yaml:"skip_insert,omitempty"`
	SkipUpdate bool `yaml:"skip_update,omitempty"`

	Find           bool `yaml:"find,omitempty"`
	FindOpt        bool `yaml:"find_opt,omitempty"`
	FindOptLike    bool `yaml:"find_opt_like,omitempty"`
	FindOptBetween bool `yaml:"find_opt_between,omitempty"`
	List           bool `yaml:"list,omitempty"`
	ListOpt        bool `yaml:"list_opt,omitempty"`
	ListOptLike    bool `yaml:"list_opt_like,omitempty"`
	ListOptBetween bool `yaml:"list_opt_between,omitempty"`
	Exists         bool `yaml:"exists,omitempty"`

	// Default and UpdateDefault name a value generator, see Generators.
	Default       string `yaml:"default,omitempty"`
	UpdateDefault string `yaml:"update_default,omitempty"`
}

// A Generator is a named value generator that schema files can use as a
// field default.
type Generator struct {
	Name string // name used in schema files.
	Path string // import path of the Go function.
	Func string // name of the Go function.
	fn   any
}

// Generators lists the value generators available to schema files.
var Generators = map[string]Generator{
	"uuid": {Name: "uuid", Path: "github.com/google/uuid", Func: "New", fn: uuid.New},
	"ulid": {Name: "ulid", Path: "github.com/syssam/crudgen/schema/mixin", Func: "NewULID", fn: mixin.NewULID},
	"now":  {Name: "now", Path: "time", Func: "Now", fn: time.Now},
}

// A MixinDef maps a mixin name used in schema files to its Go type in the
// schema/mixin package.
type MixinDef struct {
	Name  string
	Type  string
	Mixin crudgen.Mixin
}

// Mixins lists the mixins available to schema files.
var Mixins = map[string]MixinDef{
	"id":          {Name: "id", Type: "ID", Mixin: mixin.ID{}},
	"uuid":        {Name: "uuid", Type: "UUID", Mixin: mixin.UUID{}},
	"ulid":        {Name: "ulid", Type: "ULID", Mixin: mixin.ULID{}},
	"create_time": {Name: "create_time", Type: "CreateTime", Mixin: mixin.CreateTime{}},
	"update_time": {Name: "update_time", Type: "UpdateTime", Mixin: mixin.UpdateTime{}},
	"time":        {Name: "time", Type: "Time", Mixin: mixin.Time{}},
	"soft_delete": {Name: "soft_delete", Type: "SoftDelete", Mixin: mixin.SoftDelete{}},
}

// FieldType returns the parsed type of the field.
func (f *Field) FieldType() (field.Type, error) {
	return field.ParseType(f.Type)
}

// Descriptor implements the crudgen.Field interface by building the field
// descriptor. Invalid definitions are reported in the Err of the
// descriptor.
func (f *Field) Descriptor() *field.Descriptor {
	t, err := f.FieldType()
	if err != nil {
		return &field.Descriptor{Name: f.Name, Err: err}
	}
	b := field.New(f.Name, t)
	if len(f.Values) > 0 {
		b.Values(f.Values...)
	}
	if f.Comment != "" {
		b.Comment(f.Comment)
	}
	for _, flag := range f.flags() {
		if flag.set {
			flag.apply(b)
		}
	}
	for _, d := range []struct {
		name  string
		apply func(any) *field.Builder
	}{
		{f.Default, b.Default},
		{f.UpdateDefault, b.UpdateDefault},
	} {
		if d.name == "" {
			continue
		}
		g, ok := Generators[d.name]
		if !ok {
			fd := b.Descriptor()
			fd.Err = errors.Join(fd.Err, fmt.Errorf("field %q: unknown generator %q", f.Name, d.name))
			return fd
		}
		d.apply(g.fn)
	}
	return b.Descriptor()
}

// capability is a flag of a field, named after its builder method.
type capability struct {
	method string
	set    bool
	apply  func(*field.Builder) *field.Builder
}

// Flags returns the builder methods set on the field, in builder order.
// A fuzzy flag replaces the plain optional flag it implies.
func (f *Field) Flags() []string {
	var methods []string
	for _, flag := range f.flags() {
		if flag.set {
			methods = append(methods, flag.method)
		}
	}
	return methods
}

func (f *Field) flags() []capability {
	return []capability{
		{"PrimaryKey", f.PrimaryKey, (*field.Builder).PrimaryKey},
		{"SoftDelete", f.SoftDelete, (*field.Builder).SoftDelete},
		{"SkipInsert", f.SkipInsert && !f.SoftDelete, (*field.Builder).SkipInsert},
		{"SkipUpdate", f.SkipUpdate && !f.SoftDelete, (*field.Builder).SkipUpdate},
		{"Find", f.Find, (*field.Builder).Find},
		{"FindOpt", f.FindOpt && !f.FindOptLike, (*field.Builder).FindOpt},
		{"FindOptLike", f.FindOptLike, (*field.Builder).FindOptLike},
		{"FindOptBetween", f.FindOptBetween, (*field.Builder).FindOptBetween},
		{"List", f.List, (*field.Builder).List},
		{"ListOpt", f.ListOpt && !f.ListOptLike, (*field.Builder).ListOpt},
		{"ListOptLike", f.ListOptLike, (*field.Builder).ListOptLike},
		{"ListOptBetween", f.ListOptBetween, (*field.Builder).ListOptBetween},
		{"Exists", f.Exists, (*field.Builder).Exists},
	}
}

// Interface returns the schema as a crudgen.Interface. The result also
// implements graph.Namer, and crudgen.Viewer for views.
func (s *Schema) Interface() crudgen.Interface {
	if s.View {
		return viewEntity{entity: entity{s}}
	}
	return entity{s}
}

type entity struct{ s *Schema }

// viewEntity takes its schema methods from entity and its read-only
// marker from crudgen.View.
type viewEntity struct {
	crudgen.View
	entity
}

func (entity) Type() {}

func (e entity) Name() string { return e.s.Name }

func (e entity) Config() crudgen.Config {
	return crudgen.Config{Table: e.s.Table, PrimaryKey: e.s.PrimaryKey}
}

func (e entity) Mixin() []crudgen.Mixin {
	mixins := make([]crudgen.Mixin, 0, len(e.s.Mixin))
	for _, name := range e.s.Mixin {
		if m, ok := Mixins[name]; ok {
			mixins = append(mixins, m.Mixin)
		}
	}
	return mixins
}

func (e entity) Fields() []crudgen.Field {
	fields := make([]crudgen.Field, len(e.s.Fields))
	for i, f := range e.s.Fields {
		fields[i] = f
	}
	return fields
}
