// Package field provides fluent builders for declaring entity fields and the
// query capabilities each one contributes.
//
// Field names are column names (snake_case). The Go name used by generated
// code is derived with naming.VariantName:
//
//	field.Int64("user_id") // DB: user_id, Go: UserId
//	field.String("email")  // DB: email, Go: Email
//
// # Field Types
//
//	field.String("name")
//	field.Text("description")
//	field.Int("count")
//	field.Int64("big_number")
//	field.Float64("price")
//	field.Decimal("amount")
//	field.Bool("is_active")
//	field.Time("created_at")
//	field.UUID("id")
//	field.Enum("status").Values("pending", "active")
//	field.Bytes("data")
//
// # Capabilities
//
// Every capability is an independent flag. A field may carry any subset:
//
//	field.String("name").
//	    Find().           // Find(ctx, FindBy{Name: ...})
//	    ListOptLike().    // optional fuzzy filter on list (implies ListOpt)
//	    Exists()          // NameIsExists(ctx, v, exclude)
//
//	field.Time("created_at").
//	    SkipUpdate().     // never written by update
//	    ListOptBetween()  // optional BETWEEN filter on list
//
// A between flag takes precedence over the plain optional flag of the same
// operation: a field with both ListOpt and ListOptBetween is only filtered
// by range.
//
// # Errors
//
// Builder misuse does not panic. Errors are collected in Descriptor.Err and
// reported when the schema is loaded into a graph:
//
//	field.Int("age").ListOptLike() // fuzzy match on a numeric field
//	field.String("x").SoftDelete() // soft-delete field must be bool
package field
