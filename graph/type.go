package graph

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/naming"
	"github.com/syssam/crudgen/schema/field"
)

var (
	validIdent = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	validName  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
)

type (
	// Field holds the information of an entity field used by the query
	// generators. Fields are shared between a Type and the slices returned
	// by its classifier methods and must not be modified.
	Field struct {
		Name    string
		Type    field.Type
		Enums   []string
		Comment string

		PrimaryKey bool
		SoftDelete bool

		SkipInsert     bool
		SkipUpdate     bool
		Find           bool
		FindOpt        bool
		FindOptLike    bool
		FindOptBetween bool
		List           bool
		ListOpt        bool
		ListOptLike    bool
		ListOptBetween bool
		Exists         bool

		Default       func() any
		UpdateDefault func() any
	}

	// Type represents one entity. It is built once by NewType and is
	// read-only afterwards.
	Type struct {
		// Name is the entity name, e.g. "Tag".
		Name string
		// Table is the SQL table name, e.g. "tags".
		Table string
		// ID is the primary key field.
		ID *Field
		// SoftDelete is the soft-delete flag, nil when the entity has none.
		SoftDelete *Field
		// View reports whether the entity is read-only.
		View bool

		fields []*Field
		byName map[string]*Field

		insert, update               []*Field
		findBy, findOpt, findBetween []*Field
		list, listOpt, listBetween   []*Field
		exists                       []*Field
	}

	// Namer is implemented by schemas whose entity name is not the name of
	// their Go type, like schemas loaded from a file.
	Namer interface {
		Name() string
	}
)

// VariantName returns the Go name of the field, e.g. "UserId" for "user_id".
func (f *Field) VariantName() string { return naming.VariantName(f.Name) }

// Generated reports whether the database assigns the field value on insert.
func (f *Field) Generated() bool { return f.SkipInsert }

// Textual reports whether the field can be matched with LIKE.
func (f *Field) Textual() bool { return f.Type.Textual() }

// Like reports whether an optional filter on the field uses fuzzy match for
// the given operation.
func (f *Field) Like(list bool) bool {
	if list {
		return f.ListOptLike
	}
	return f.FindOptLike
}

func newField(d *field.Descriptor) *Field {
	return &Field{
		Name:           d.Name,
		Type:           d.Type,
		Enums:          slices.Clone(d.Enums),
		Comment:        d.Comment,
		PrimaryKey:     d.PrimaryKey,
		SoftDelete:     d.SoftDelete,
		SkipInsert:     d.SkipInsert,
		SkipUpdate:     d.SkipUpdate,
		Find:           d.Find,
		FindOpt:        d.FindOpt,
		FindOptLike:    d.FindOptLike,
		FindOptBetween: d.FindOptBetween,
		List:           d.List,
		ListOpt:        d.ListOpt,
		ListOptLike:    d.ListOptLike,
		ListOptBetween: d.ListOptBetween,
		Exists:         d.Exists,
		Default:        d.Default,
		UpdateDefault:  d.UpdateDefault,
	}
}

// NewType creates a new Type from the given schema. The entity name is the
// name of the schema Go type, or the result of its Name method when it
// implements Namer.
func NewType(s crudgen.Interface) (*Type, error) {
	if s == nil {
		return nil, NewSchemaError("", "", "nil schema", nil)
	}
	if n, ok := s.(Namer); ok {
		return NewTypeNamed(n.Name(), s)
	}
	return NewTypeNamed(indirect(reflect.TypeOf(s)).Name(), s)
}

// NewTypeNamed creates a new Type with an explicit entity name.
func NewTypeNamed(name string, s crudgen.Interface) (*Type, error) {
	if !validName.MatchString(name) {
		return nil, NewSchemaError(name, "", "invalid entity name", nil)
	}
	var (
		errs []error
		cfg  = s.Config()
		t    = &Type{
			Name:   name,
			Table:  naming.TableName(name),
			View:   crudgen.IsView(s),
			byName: make(map[string]*Field),
		}
	)
	if cfg.Table != "" {
		if !validIdent.MatchString(cfg.Table) {
			errs = append(errs, NewSchemaError(name, "", fmt.Sprintf("invalid table name %q", cfg.Table), nil))
		}
		t.Table = cfg.Table
	}
	var fields []crudgen.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			errs = append(errs, NewSchemaError(name, d.Name, "", d.Err))
			continue
		}
		if _, ok := t.byName[d.Name]; ok {
			errs = append(errs, NewSchemaError(name, d.Name, "duplicate field", nil))
			continue
		}
		if d.Type == field.TypeEnum && len(d.Enums) == 0 {
			errs = append(errs, NewSchemaError(name, d.Name, "enum field without values", nil))
			continue
		}
		fd := newField(d)
		t.fields = append(t.fields, fd)
		t.byName[fd.Name] = fd
	}
	if err := t.resolveID(cfg.PrimaryKey); err != nil {
		errs = append(errs, err)
	}
	if err := t.resolveSoftDelete(); err != nil {
		errs = append(errs, err)
	}
	if err := crudgen.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	t.classify()
	return t, nil
}

func (t *Type) resolveID(configured string) error {
	var marked []*Field
	for _, f := range t.fields {
		if f.PrimaryKey {
			marked = append(marked, f)
		}
	}
	switch {
	case len(marked) > 1:
		return NewSchemaError(t.Name, marked[1].Name, fmt.Sprintf("multiple primary keys (%s already marked)", marked[0].Name), nil)
	case len(marked) == 1:
		if configured != "" && configured != marked[0].Name {
			return NewSchemaError(t.Name, configured, fmt.Sprintf("Config.PrimaryKey conflicts with primary key field %q", marked[0].Name), nil)
		}
		t.ID = marked[0]
	case configured != "":
		f, ok := t.byName[configured]
		if !ok {
			return NewSchemaError(t.Name, configured, "Config.PrimaryKey names a missing field", nil)
		}
		t.ID = f
	default:
		f, ok := t.byName["id"]
		if !ok {
			return NewSchemaError(t.Name, "", "missing primary key", nil)
		}
		t.ID = f
	}
	t.ID.PrimaryKey = true
	return nil
}

func (t *Type) resolveSoftDelete() error {
	for _, f := range t.fields {
		if !f.SoftDelete {
			continue
		}
		if t.SoftDelete != nil {
			return NewSchemaError(t.Name, f.Name, fmt.Sprintf("multiple soft-delete fields (%s already marked)", t.SoftDelete.Name), nil)
		}
		if f.Type != field.TypeBool {
			return NewSchemaError(t.Name, f.Name, "soft-delete field must be bool", nil)
		}
		if f.PrimaryKey {
			return NewSchemaError(t.Name, f.Name, "primary key cannot be the soft-delete field", nil)
		}
		t.SoftDelete = f
	}
	return nil
}

// classify precomputes the field sets of every operation.
func (t *Type) classify() {
	for _, f := range t.fields {
		if !t.View && !f.SkipInsert {
			t.insert = append(t.insert, f)
		}
		if !t.View && !f.SkipUpdate && !f.PrimaryKey {
			t.update = append(t.update, f)
		}
		if f.Find {
			t.findBy = append(t.findBy, f)
		}
		switch {
		case f.FindOptBetween:
			t.findBetween = append(t.findBetween, f)
		case f.FindOpt:
			t.findOpt = append(t.findOpt, f)
		}
		if f.List {
			t.list = append(t.list, f)
		}
		switch {
		case f.ListOptBetween:
			t.listBetween = append(t.listBetween, f)
		case f.ListOpt:
			t.listOpt = append(t.listOpt, f)
		}
		if f.Exists {
			t.exists = append(t.exists, f)
		}
	}
}

// Fields returns all fields of the entity in declaration order, mixin
// fields first.
func (t *Type) Fields() []*Field { return slices.Clone(t.fields) }

// Field returns the field with the given column name.
func (t *Type) Field(name string) (*Field, bool) {
	f, ok := t.byName[name]
	return f, ok
}

// Columns returns the column names of all fields in declaration order.
func (t *Type) Columns() []string {
	columns := make([]string, len(t.fields))
	for i, f := range t.fields {
		columns[i] = f.Name
	}
	return columns
}

// InsertFields returns the fields written by insert.
func (t *Type) InsertFields() []*Field { return slices.Clone(t.insert) }

// UpdateFields returns the fields written by whole-row update. The primary
// key is never included.
func (t *Type) UpdateFields() []*Field { return slices.Clone(t.update) }

// SelfUpdateFields returns the fields that get a single-column update.
func (t *Type) SelfUpdateFields() []*Field { return slices.Clone(t.update) }

// FindByFields returns the alternative lookup keys of find.
func (t *Type) FindByFields() []*Field { return slices.Clone(t.findBy) }

// FindOptFields returns the optional equality or fuzzy filters of find.
// Fields with a range filter on find are excluded.
func (t *Type) FindOptFields() []*Field { return slices.Clone(t.findOpt) }

// FindOptBetweenFields returns the optional range filters of find.
func (t *Type) FindOptBetweenFields() []*Field { return slices.Clone(t.findBetween) }

// ListFields returns the required equality filters of list.
func (t *Type) ListFields() []*Field { return slices.Clone(t.list) }

// ListOptFields returns the optional equality or fuzzy filters of list.
// Fields with a range filter on list are excluded.
func (t *Type) ListOptFields() []*Field { return slices.Clone(t.listOpt) }

// ListOptBetweenFields returns the optional range filters of list.
func (t *Type) ListOptBetweenFields() []*Field { return slices.Clone(t.listBetween) }

// ExistsFields returns the fields with an existence check.
func (t *Type) ExistsFields() []*Field { return slices.Clone(t.exists) }

// HasFind reports whether the entity has a find operation.
func (t *Type) HasFind() bool {
	return len(t.findBy)+len(t.findOpt)+len(t.findBetween) > 0
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
