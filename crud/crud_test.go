package crud_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/crud"
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

type Account struct{ crudgen.Schema }

func (Account) Mixin() []crudgen.Mixin {
	return []crudgen.Mixin{mixin.UUID{}, mixin.Time{}}
}

func (Account) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.String("email").Exists().FindOpt(),
		field.Int("age").ListOptBetween(),
	}
}

type TagStats struct{ crudgen.View }

func (TagStats) Config() crudgen.Config {
	return crudgen.Config{Table: "tag_stats", PrimaryKey: "tag_id"}
}

func (TagStats) Fields() []crudgen.Field {
	return []crudgen.Field{
		field.Int64("tag_id").Find(),
		field.Int64("uses"),
	}
}

// memCache is a crudgen.Cache backed by a map.
type memCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	if ok {
		c.hits++
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	return nil
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func (c *memCache) hitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

var _ crudgen.Cache = (*memCache)(nil)

func TestKey(t *testing.T) {
	t.Parallel()

	id, err := crud.Key[int64](any(int64(7)))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = crud.Key[uuid.UUID](any("7"))
	assert.EqualError(t, err, "crud: primary key 7 is string, not uuid.UUID")
}
