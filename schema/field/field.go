package field

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
)

// validName matches column names that can be emitted without quoting.
var validName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// A Descriptor for field configuration.
type Descriptor struct {
	Name    string   // column name.
	Type    Type     // field type.
	Enums   []string // enum values.
	Comment string   // field comment.

	PrimaryKey bool // primary key of the entity.
	SoftDelete bool // boolean column flipped by soft delete and restore.

	SkipInsert bool // omitted from insert statements.
	SkipUpdate bool // omitted from update statements.

	Find           bool // alternative single-row lookup key.
	FindOpt        bool // optional equality filter on find.
	FindOptLike    bool // optional filter on find uses fuzzy match.
	FindOptBetween bool // optional range filter on find.

	List           bool // required equality filter on list.
	ListOpt        bool // optional equality filter on list.
	ListOptLike    bool // optional filter on list uses fuzzy match.
	ListOptBetween bool // optional range filter on list.

	Exists bool // uniqueness probe.

	Default       func() any // value generator used by insert when no value is given.
	UpdateDefault func() any // value generator used by update when no value is given.

	Err error
}

// Builder is the builder for all field types.
type Builder struct {
	desc *Descriptor
}

// String returns a new Field with type string.
func String(name string) *Builder { return newBuilder(name, TypeString) }

// Text returns a new string field without limitation on the size.
func Text(name string) *Builder { return newBuilder(name, TypeText) }

// Int returns a new Field with type int.
func Int(name string) *Builder { return newBuilder(name, TypeInt) }

// Int64 returns a new Field with type int64.
func Int64(name string) *Builder { return newBuilder(name, TypeInt64) }

// Float64 returns a new Field with type float64.
func Float64(name string) *Builder { return newBuilder(name, TypeFloat64) }

// Decimal returns a new Field with type decimal. Values travel as strings
// to keep their precision.
func Decimal(name string) *Builder { return newBuilder(name, TypeDecimal) }

// Bool returns a new Field with type bool.
func Bool(name string) *Builder { return newBuilder(name, TypeBool) }

// Time returns a new Field with type timestamp.
func Time(name string) *Builder { return newBuilder(name, TypeTime) }

// UUID returns a new Field with type uuid.
func UUID(name string) *Builder { return newBuilder(name, TypeUUID) }

// Bytes returns a new Field with type bytes/buffer.
func Bytes(name string) *Builder { return newBuilder(name, TypeBytes) }

// Enum returns a new Field with type enum. Values are set with Values.
//
//	field.Enum("state").
//		Values("on", "off")
func Enum(name string) *Builder { return newBuilder(name, TypeEnum) }

// New returns a new Field of the given type. It is used when the type is
// only known at run time, like for fields loaded from a schema file.
func New(name string, t Type) *Builder {
	b := newBuilder(name, t)
	if !t.Valid() {
		b.err(fmt.Errorf("field %q: invalid type %d", name, t))
	}
	return b
}

func newBuilder(name string, t Type) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Type: t}}
	if !validName.MatchString(name) {
		b.err(fmt.Errorf("field: invalid name %q", name))
	}
	return b
}

// Values adds given values to the enum values.
func (b *Builder) Values(values ...string) *Builder {
	if b.desc.Type != TypeEnum {
		b.err(fmt.Errorf("field %q: Values is only valid for enum fields", b.desc.Name))
		return b
	}
	for _, v := range values {
		if v == "" {
			b.err(fmt.Errorf("field %q: empty enum value", b.desc.Name))
			continue
		}
		b.desc.Enums = append(b.desc.Enums, v)
	}
	return b
}

// PrimaryKey marks the field as the primary key of the entity.
func (b *Builder) PrimaryKey() *Builder {
	b.desc.PrimaryKey = true
	return b
}

// SoftDelete marks the boolean field flipped by soft delete and restore.
// The field is also skipped on insert and update.
func (b *Builder) SoftDelete() *Builder {
	if b.desc.Type != TypeBool {
		b.err(fmt.Errorf("field %q: soft-delete field must be bool, got %s", b.desc.Name, b.desc.Type))
	}
	b.desc.SoftDelete = true
	b.desc.SkipInsert = true
	b.desc.SkipUpdate = true
	return b
}

// SkipInsert omits the field from insert statements.
func (b *Builder) SkipInsert() *Builder {
	b.desc.SkipInsert = true
	return b
}

// SkipUpdate omits the field from update and self-update statements.
func (b *Builder) SkipUpdate() *Builder {
	b.desc.SkipUpdate = true
	return b
}

// Immutable is an alias for SkipUpdate.
func (b *Builder) Immutable() *Builder {
	return b.SkipUpdate()
}

// Find makes the field an alternative lookup key for single-row find.
func (b *Builder) Find() *Builder {
	b.desc.Find = true
	return b
}

// FindOpt adds an optional equality filter on find.
func (b *Builder) FindOpt() *Builder {
	b.desc.FindOpt = true
	return b
}

// FindOptLike adds an optional fuzzy filter on find.
func (b *Builder) FindOptLike() *Builder {
	b.like()
	b.desc.FindOpt = true
	b.desc.FindOptLike = true
	return b
}

// FindOptBetween adds an optional range filter on find.
func (b *Builder) FindOptBetween() *Builder {
	b.desc.FindOptBetween = true
	return b
}

// List adds a required equality filter on list.
func (b *Builder) List() *Builder {
	b.desc.List = true
	return b
}

// ListOpt adds an optional equality filter on list.
func (b *Builder) ListOpt() *Builder {
	b.desc.ListOpt = true
	return b
}

// ListOptLike adds an optional fuzzy filter on list.
func (b *Builder) ListOptLike() *Builder {
	b.like()
	b.desc.ListOpt = true
	b.desc.ListOptLike = true
	return b
}

// ListOptBetween adds an optional range filter on list.
func (b *Builder) ListOptBetween() *Builder {
	b.desc.ListOptBetween = true
	return b
}

// Exists generates an existence check on the field.
func (b *Builder) Exists() *Builder {
	b.desc.Exists = true
	return b
}

// Comment sets the comment of the field.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Default sets a function that produces the value of the field on insert
// when the record carries none. fn must take no arguments and return
// exactly one value.
//
//	field.UUID("id").
//		Default(uuid.New)
func (b *Builder) Default(fn any) *Builder {
	b.desc.Default = b.valueFunc("Default", fn)
	return b
}

// UpdateDefault sets a function that produces the value of the field on
// whole-row update when the record carries none.
//
//	field.Time("updated_at").
//		UpdateDefault(time.Now)
func (b *Builder) UpdateDefault(fn any) *Builder {
	b.desc.UpdateDefault = b.valueFunc("UpdateDefault", fn)
	return b
}

// Descriptor implements the crudgen.Field interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

func (b *Builder) like() {
	if !b.desc.Type.Textual() {
		b.err(fmt.Errorf("field %q: fuzzy match is only valid for string, text or enum fields, got %s", b.desc.Name, b.desc.Type))
	}
}

func (b *Builder) err(err error) {
	b.desc.Err = errors.Join(b.desc.Err, err)
}

func (b *Builder) valueFunc(name string, fn any) func() any {
	if fn == nil {
		b.err(fmt.Errorf("field %q: %s func is nil", b.desc.Name, name))
		return nil
	}
	if f, ok := fn.(func() any); ok {
		return f
	}
	rv := reflect.ValueOf(fn)
	rt := rv.Type()
	if rt.Kind() != reflect.Func || rt.NumIn() != 0 || rt.NumOut() != 1 {
		b.err(fmt.Errorf("field %q: %s expects func() T, got %s", b.desc.Name, name, rt))
		return nil
	}
	return func() any {
		return rv.Call(nil)[0].Interface()
	}
}
