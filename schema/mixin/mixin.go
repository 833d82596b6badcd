package mixin

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/schema/field"
)

// Schema is the default implementation for the crudgen.Mixin interface.
// It should be embedded in all custom mixin definitions.
//
// Example:
//
//	type MyMixin struct {
//	    mixin.Schema
//	}
//
//	func (MyMixin) Fields() []crudgen.Field {
//	    return []crudgen.Field{
//	        field.String("custom_field"),
//	    }
//	}
type Schema struct{}

// Fields returns the fields of the mixin.
// Override this method to add custom fields.
func (Schema) Fields() []crudgen.Field { return nil }

// schema mixin must implement `Mixin` interface.
var _ crudgen.Mixin = (*Schema)(nil)

// ID adds an int64 primary key generated by the database.
// Insert omits the column and reads the new key back.
type ID struct{ Schema }

// Fields of the ID mixin.
func (ID) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Int64("id").
			PrimaryKey().
			SkipInsert().
			Find(),
	}
}

// UUID adds a UUID primary key generated on the client with uuid.New.
type UUID struct{ Schema }

// Fields of the UUID mixin.
func (UUID) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.UUID("id").
			PrimaryKey().
			Default(uuid.New).
			Find(),
	}
}

// ULID adds a lexicographically sortable string primary key generated on
// the client.
type ULID struct{ Schema }

// Fields of the ULID mixin.
func (ULID) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.String("id").
			PrimaryKey().
			Default(NewULID).
			Find(),
	}
}

// NewULID returns a new ULID string using crypto/rand entropy.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// CreateTime adds created_at time field.
// The field is set on insert and never updated.
type CreateTime struct{ Schema }

// Fields of the create time mixin.
func (CreateTime) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Time("created_at").
			Default(time.Now).
			SkipUpdate().
			ListOptBetween(),
	}
}

// UpdateTime adds updated_at time field.
// The field is refreshed by every whole-row update.
type UpdateTime struct{ Schema }

// Fields of the update time mixin.
func (UpdateTime) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Time composes CreateTime and UpdateTime mixins.
type Time struct{ Schema }

// Fields of the time mixin.
func (Time) Fields() []crudgen.Field {
	return append(
		CreateTime{}.Fields(),
		UpdateTime{}.Fields()...,
	)
}

// SoftDelete adds the is_del flag. Delete sets it, Restore clears it and
// RealDel removes the row.
type SoftDelete struct{ Schema }

// Fields of the soft delete mixin.
func (SoftDelete) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Bool("is_del").
			SoftDelete().
			ListOpt(),
	}
}

var (
	_ crudgen.Mixin = (*ID)(nil)
	_ crudgen.Mixin = (*UUID)(nil)
	_ crudgen.Mixin = (*ULID)(nil)
	_ crudgen.Mixin = (*CreateTime)(nil)
	_ crudgen.Mixin = (*UpdateTime)(nil)
	_ crudgen.Mixin = (*Time)(nil)
	_ crudgen.Mixin = (*SoftDelete)(nil)
)
