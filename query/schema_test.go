package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/graph"
	"github.com/syssam/crudgen/query"
	"github.com/syssam/crudgen/schema/field"
	"github.com/syssam/crudgen/schema/mixin"
)

type Tag struct{ crudgen.Schema }

func (Tag) Mixin() []crudgen.Mixin {
	return []crudgen.Mixin{mixin.ID{}}
}

func (Tag) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.String("name").ListOpt().ListOptLike().Exists().Find(),
		field.Bool("is_del").SoftDelete(),
	}
}

type UserPurchasedService struct{ crudgen.Schema }

func (UserPurchasedService) Mixin() []crudgen.Mixin {
	return []crudgen.Mixin{mixin.ID{}, mixin.Time{}}
}

func (UserPurchasedService) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Int64("user_id").List().SkipUpdate(),
		field.String("title").FindOptLike().ListOpt().ListOptBetween(),
		field.Float64("price").FindOpt().FindOptBetween(),
		field.Enum("state").Values("active", "expired").ListOpt(),
		field.String("code").Find().Exists(),
	}
}

type Account struct{ crudgen.Schema }

func (Account) Mixin() []crudgen.Mixin {
	return []crudgen.Mixin{mixin.UUID{}}
}

func (Account) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.String("email").Exists(),
	}
}

type Membership struct{ crudgen.Schema }

func (Membership) Config() crudgen.Config {
	return crudgen.Config{Table: "group"}
}

func (Membership) Mixin() []crudgen.Mixin {
	return []crudgen.Mixin{mixin.ID{}}
}

func (Membership) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.String("user").List(),
	}
}

type Event struct{ crudgen.Schema }

func (Event) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Int64("id").SkipInsert(),
		field.Text("payload"),
	}
}

type TagStats struct{ crudgen.View }

func (TagStats) Config() crudgen.Config {
	return crudgen.Config{Table: "tag_stats", PrimaryKey: "tag_id"}
}

func (TagStats) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Int64("tag_id").Find(),
		field.Int64("uses").ListOptBetween(),
	}
}

func generator(t *testing.T, s crudgen.Interface, dialect string) *query.Generator {
	t.Helper()
	typ, err := graph.NewType(s)
	require.NoError(t, err)
	g, err := query.New(typ, dialect)
	require.NoError(t, err)
	return g
}
