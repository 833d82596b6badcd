package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/load"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := NewConfigError("Workers", -1, "workers must be positive")
	assert.Equal(t, "gen: option Workers = -1: workers must be positive", err.Error())
	assert.Equal(t, "gen: option Package: cannot be empty", NewConfigError("Package", nil, "cannot be empty").Error())

	assert.ErrorIs(t, err, ErrMissingConfig)
	assert.NotErrorIs(t, err, ErrGenerationFailed)
	assert.True(t, IsConfigError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsConfigError(errors.New("other")))
}

func TestGenerationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("unexpected EOF")
	err := NewGenerationError(PhaseFormat, "tag.go", "bad output", cause)
	assert.Equal(t, "gen: format tag.go: bad output: unexpected EOF", err.Error())
	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	assert.Equal(t, "gen: check: invalid schema", NewGenerationError(PhaseCheck, "", "invalid schema", nil).Error())
	assert.True(t, IsGenerationError(NewGenerationError(PhaseWrite, "", "", nil)))
	assert.False(t, IsGenerationError(NewConfigError("Target", nil, "")))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader, cfg.Header)

	for name, opt := range map[string]Option{
		"Package": WithPackage(""),
		"Target":  WithTarget(""),
		"Workers": WithWorkers(0),
		"Fs":      WithFs(nil),
	} {
		err := cfg.Apply(opt)
		require.Error(t, err, name)
		assert.True(t, IsConfigError(err), name)
	}

	err = cfg.ApplyAll(WithPackage(""), WithWorkers(-1), WithHeader("custom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Package")
	assert.Contains(t, err.Error(), "Workers")
	assert.Equal(t, "custom", cfg.Header)
}

func TestConfigCheck(t *testing.T) {
	t.Parallel()

	cfg := &Config{Target: "./internal/entity"}
	require.NoError(t, cfg.check())
	assert.Equal(t, "entity", cfg.Package)
	assert.Equal(t, DefaultHeader, cfg.Header)
	assert.Positive(t, cfg.Workers)
	assert.NotNil(t, cfg.Fs)

	assert.True(t, IsConfigError((&Config{}).check()))
	assert.True(t, IsConfigError((&Config{Target: "./my-entity"}).check()))
	assert.True(t, IsConfigError((&Config{Target: "out", Package: "Entity"}).check()))
}

func TestNewGraphErrors(t *testing.T) {
	t.Parallel()

	field := func(name string) *load.Field { return &load.Field{Name: name, Type: "string"} }
	tests := []struct {
		name    string
		schemas []*load.Schema
		want    string
	}{
		{
			name: "reserved member",
			schemas: []*load.Schema{
				{Name: "Tag", Mixin: []string{"id"}, Fields: []*load.Field{field("order")}},
			},
			want: "conflicts with the generated filter member Order",
		},
		{
			name: "duplicate identifier",
			schemas: []*load.Schema{
				{Name: "Tag", Mixin: []string{"id"}},
				{Name: "TagClient", Mixin: []string{"id"}},
			},
			want: "identifier TagClient of TagClient is already declared by Tag",
		},
		{
			name: "package identifier",
			schemas: []*load.Schema{
				{Name: "Graph", Mixin: []string{"id"}},
			},
			want: "identifier Graph of Graph is already declared by package",
		},
		{
			name: "package file",
			schemas: []*load.Schema{
				{Name: "Schema", Mixin: []string{"id"}},
			},
			want: "conflicts with a package file",
		},
		{
			name: "invalid schema",
			schemas: []*load.Schema{
				{Name: "Tag", Mixin: []string{"serial"}},
			},
			want: `unknown mixin "serial"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewGraph(&Config{Target: "entity"}, tt.schemas...)
			require.Error(t, err)
			assert.True(t, IsGenerationError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := NewGraph(nil)
	assert.True(t, IsConfigError(err))
	_, err = NewGraph(&Config{Target: "entity"})
	assert.True(t, IsConfigError(err))
}

func TestTypeNames(t *testing.T) {
	t.Parallel()

	g, err := NewGraph(&Config{Target: "entity"}, &load.Schema{
		Name:   "UserPurchasedService",
		Mixin:  []string{"id"},
		Fields: []*load.Field{{Name: "user_id", Type: "int64", Find: true}},
	})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	typ := g.Nodes[0]
	assert.Equal(t, "user_purchased_service.go", typ.FileName())
	assert.Equal(t, "UserPurchasedServiceClient", typ.ClientName())
	assert.Equal(t, "userPurchasedServiceSchema", typ.schemaName())
	assert.Equal(t, "userPurchasedServiceFindBy", typ.selector())
	uid, _ := typ.Field("user_id")
	assert.Equal(t, "UserPurchasedServiceByUserId", typ.FindByVariant(uid))
	assert.True(t, typ.Mutable())
}
