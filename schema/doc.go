// Package schema groups the building blocks of crudgen entity schemas.
//
// The subpackages provide:
//
//   - [field]: field builders and the query capabilities of each field
//   - [mixin]: reusable field sets such as primary keys and timestamps
//
// # Quick Start
//
// Define an entity by embedding crudgen.Schema, or crudgen.View for a
// read-only entity, and listing its fields:
//
//	type UserPurchasedService struct{ crudgen.Schema }
//
//	func (UserPurchasedService) Mixin() []crudgen.Mixin {
//	    return []crudgen.Mixin{
//	        mixin.ID{},   // int64 primary key generated by the database
//	        mixin.Time{}, // created_at and updated_at
//	    }
//	}
//
//	func (UserPurchasedService) Fields() []crudgen.Field {
//	    return []crudgen.Field{
//	        field.Int64("user_id").List().SkipUpdate(),
//	        field.String("title").FindOptLike().ListOpt(),
//	        field.Decimal("price").FindOptBetween(),
//	        field.Enum("state").Values("pending", "paid", "refunded").ListOpt(),
//	        field.String("code").Find().Exists(),
//	    }
//	}
//
// # Capabilities
//
// Each capability flag adds the field to one family of generated
// statements:
//
//	Find            alternative key of Find
//	FindOpt         optional equality filter of Find
//	FindOptLike     optional substring filter of Find
//	FindOptBetween  optional range filter of Find
//	List            required equality filter of List and ListAll
//	ListOpt         optional equality filter of List and ListAll
//	ListOptLike     optional substring filter of List and ListAll
//	ListOptBetween  optional range filter of List and ListAll
//	Exists          uniqueness probe with an optional excluded row
//
// SkipInsert and SkipUpdate leave the field out of insert and update
// statements. PrimaryKey and SoftDelete mark the key and the deletion flag.
//
// # Table Configuration
//
// Config overrides the derived table name and the primary key column:
//
//	func (TagStats) Config() crudgen.Config {
//	    return crudgen.Config{Table: "tag_stats", PrimaryKey: "tag_id"}
//	}
//
// Schemas are usually loaded from a YAML file by the compiler/load
// package and compiled into typed clients by compiler/gen.
package schema
