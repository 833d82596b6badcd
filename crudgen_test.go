package crudgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/schema/field"
)

type tag struct {
	crudgen.Schema
}

func (tag) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.String("name"),
	}
}

type tagStats struct {
	crudgen.View
}

func (tagStats) Config() crudgen.Config {
	return crudgen.Config{Table: "tag_stats", PrimaryKey: "tag_id"}
}

// TestSchemaDefaultMethods tests the default implementations of Schema methods.
func TestSchemaDefaultMethods(t *testing.T) {
	t.Parallel()

	type TestSchema struct {
		crudgen.Schema
	}

	s := TestSchema{}
	assert.Nil(t, s.Fields())
	assert.Nil(t, s.Mixin())
	assert.Equal(t, crudgen.Config{}, s.Config())
	assert.False(t, crudgen.IsView(s))
}

// TestView tests the View struct.
func TestView(t *testing.T) {
	t.Parallel()

	v := tagStats{}
	assert.Nil(t, v.Fields())
	assert.Equal(t, "tag_stats", v.Config().Table)
	assert.True(t, crudgen.IsView(v))

	var _ crudgen.Viewer = v
	var _ crudgen.Interface = tag{}
}

func TestOverriddenFields(t *testing.T) {
	t.Parallel()

	fields := tag{}.Fields()
	assert.Len(t, fields, 1)
	assert.Equal(t, "name", fields[0].Descriptor().Name)
	assert.False(t, crudgen.IsView(tag{}))
}
