// Package mixin provides reusable field sets for crudgen schemas.
//
// Mixin fields precede the schema's own fields, in the order the mixins are
// listed:
//
//	func (Tag) Mixin() []crudgen.Mixin {
//	    return []crudgen.Mixin{
//	        mixin.ID{},         // id int64, generated by the database
//	        mixin.Time{},       // created_at, updated_at
//	        mixin.SoftDelete{}, // is_del
//	    }
//	}
//
// Available mixins:
//
//   - ID: int64 primary key assigned by the database
//   - UUID: uuid primary key generated with uuid.New
//   - ULID: sortable string primary key generated on the client
//   - CreateTime, UpdateTime, Time: timestamp columns
//   - SoftDelete: is_del flag used by Del and Restore
//
// Custom mixins embed Schema and override Fields:
//
//	type AuditMixin struct {
//	    mixin.Schema
//	}
//
//	func (AuditMixin) Fields() []crudgen.Field {
//	    return []crudgen.Field{
//	        field.String("created_by").SkipUpdate(),
//	        field.String("updated_by"),
//	    }
//	}
package mixin
