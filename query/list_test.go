package query_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/query"
)

func TestListTagExample(t *testing.T) {
	t.Parallel()

	op := generator(t, Tag{}, dialect.Postgres).List()
	data, count, err := op.Bind(query.ListFilter{
		Pagination: query.Pagination{Page: 0, PageSize: 10},
		Opt:        map[string]any{"name": "rust"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name, is_del FROM tags WHERE 1=1 AND name ILIKE $1 ORDER BY id DESC LIMIT 10 OFFSET 0", data.SQL)
	assert.Equal(t, "SELECT COUNT(*) FROM tags WHERE 1=1 AND name ILIKE $1", count.SQL)
	assert.Equal(t, []any{"%rust%"}, data.Args)
	assert.Equal(t, data.Args, count.Args)

	page := query.NewPaginate(query.Pagination{PageSize: 10}, 23, []query.Record{{"id": int64(1)}})
	assert.Equal(t, int64(3), page.TotalPage)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 0, page.Page)
}

func TestListFilterOrder(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	op := generator(t, UserPurchasedService{}, dialect.MySQL).List()
	data, count, err := op.Bind(query.ListFilter{
		Pagination: query.Pagination{Page: 2},
		Required:   map[string]any{"user_id": int64(7)},
		Opt:        map[string]any{"state": "active"},
		Between: map[string]query.Range{
			"title":      {Start: "a", End: "m"},
			"created_at": {Start: from, End: to},
		},
	})
	require.NoError(t, err)
	where := " WHERE 1=1 AND user_id = ? AND state = ? AND created_at BETWEEN ? AND ? AND title BETWEEN ? AND ?"
	assert.Equal(t, "SELECT "+upsColumns+" FROM user_purchased_services"+where+" ORDER BY id DESC LIMIT 30 OFFSET 60", data.SQL)
	assert.Equal(t, "SELECT COUNT(*) FROM user_purchased_services"+where, count.SQL)
	assert.Equal(t, []any{int64(7), "active", from, to, "a", "m"}, data.Args)
	assert.Equal(t, data.Args, count.Args)
}

// Data and count must filter identically for every filter combination.
func TestListDataCountAgree(t *testing.T) {
	t.Parallel()

	op := generator(t, UserPurchasedService{}, dialect.Postgres).List()
	opts := []map[string]any{nil, {"state": "expired"}, {"state": nil}}
	betweens := []map[string]query.Range{nil, {"title": {Start: "a", End: "z"}}, {"created_at": {Start: 1, End: 2}, "title": {Start: "a", End: "z"}}}
	for _, opt := range opts {
		for _, between := range betweens {
			for _, page := range []query.Pagination{{}, {Page: 3, PageSize: 7}} {
				data, count, err := op.Bind(query.ListFilter{
					Pagination: page,
					Required:   map[string]any{"user_id": 1},
					Opt:        opt,
					Between:    between,
				})
				require.NoError(t, err)
				_, dataWhere, _ := strings.Cut(data.SQL, " WHERE ")
				dataWhere, _, _ = strings.Cut(dataWhere, " ORDER BY ")
				_, countWhere, _ := strings.Cut(count.SQL, " WHERE ")
				assert.Equal(t, dataWhere, countWhere)
				assert.Equal(t, data.Args, count.Args)
				assert.Equal(t, strings.Count(data.SQL, "BETWEEN"), len(between))
			}
		}
	}
}

func TestListErrors(t *testing.T) {
	t.Parallel()

	op := generator(t, UserPurchasedService{}, dialect.Postgres).List()
	required := map[string]any{"user_id": 1}
	for name, f := range map[string]query.ListFilter{
		"MissingRequired": {},
		"NilRequired":     {Required: map[string]any{"user_id": nil}},
		"NilPtrRequired":  {Required: map[string]any{"user_id": (*int64)(nil)}},
		"UnknownRequired": {Required: map[string]any{"user_id": 1, "code": "x"}},
		"BetweenAsOpt":    {Required: required, Opt: map[string]any{"title": "x"}},
		"NegativePage":    {Required: required, Pagination: query.Pagination{Page: -1}},
		"OffsetOverflow":  {Required: required, Pagination: query.Pagination{Page: math.MaxInt, PageSize: 10}},
		"BadOrder":        {Required: required, Order: "id; DROP TABLE tags"},
		"UnknownOrder":    {Required: required, Order: "nope DESC"},
	} {
		_, _, err := op.Bind(f)
		assert.True(t, crudgen.IsInvalidArgument(err), name)
	}
}

func TestOrderOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect string
		order   string
		want    string
		wantErr bool
	}{
		{dialect: dialect.Postgres, order: "name", want: "ORDER BY name LIMIT"},
		{dialect: dialect.Postgres, order: " name  asc , id desc ", want: "ORDER BY name ASC, id DESC LIMIT"},
		{dialect: dialect.Postgres, order: "name DESC NULLS LAST", want: "ORDER BY name DESC NULLS LAST LIMIT"},
		{dialect: dialect.SQLite, order: "is_del nulls first", want: "ORDER BY is_del NULLS FIRST LIMIT"},
		{dialect: dialect.MySQL, order: "name nulls first", wantErr: true},
		{dialect: dialect.MySQL, order: "name,", wantErr: true},
		{dialect: dialect.MySQL, order: "LOWER(name)", wantErr: true},
	}
	for _, tt := range tests {
		data, _, err := generator(t, Tag{}, tt.dialect).List().Bind(query.ListFilter{Order: tt.order})
		if tt.wantErr {
			assert.True(t, crudgen.IsInvalidArgument(err), tt.order)
			continue
		}
		require.NoError(t, err, tt.order)
		assert.Contains(t, data.SQL, tt.want)
	}
}

func TestListAll(t *testing.T) {
	t.Parallel()

	op := generator(t, UserPurchasedService{}, dialect.Postgres).ListAll()
	stmt, err := op.Bind(query.ListAllFilter{Required: map[string]any{"user_id": int64(7)}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+upsColumns+" FROM user_purchased_services WHERE 1=1 AND user_id = $1 LIMIT 300", stmt.SQL)
	assert.Equal(t, []any{int64(7)}, stmt.Args)

	stmt, err = op.Bind(query.ListAllFilter{
		Limit:    5,
		Order:    "created_at desc",
		Required: map[string]any{"user_id": int64(7)},
		Opt:      map[string]any{"state": "active"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT "+upsColumns+" FROM user_purchased_services WHERE 1=1 AND user_id = $1 AND state = $2 ORDER BY created_at DESC LIMIT 5", stmt.SQL)

	_, err = op.Bind(query.ListAllFilter{})
	assert.True(t, crudgen.IsInvalidArgument(err), "missing required filter")
	_, err = op.Bind(query.ListAllFilter{Limit: -1, Required: map[string]any{"user_id": 1}})
	assert.True(t, crudgen.IsInvalidArgument(err))

	view := generator(t, TagStats{}, dialect.SQLite).ListAll()
	stmt, err = view.Bind(query.ListAllFilter{Between: map[string]query.Range{"uses": {Start: 1, End: 9}}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT tag_id, uses FROM tag_stats WHERE 1=1 AND uses BETWEEN ? AND ? LIMIT 300", stmt.SQL)
	assert.Equal(t, []any{1, 9}, stmt.Args)
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	g := generator(t, UserPurchasedService{}, dialect.Postgres)
	assert.Equal(t,
		"SELECT "+upsColumns+" FROM user_purchased_services WHERE 1=1 AND user_id = $1 AND state = $2 AND created_at BETWEEN $3 AND $4 AND title BETWEEN $5 AND $6 ORDER BY id DESC LIMIT 30 OFFSET 0",
		g.List().Template(),
	)
	assert.Equal(t,
		"SELECT "+upsColumns+" FROM user_purchased_services WHERE 1=1 AND user_id = $1 AND state = $2 AND created_at BETWEEN $3 AND $4 AND title BETWEEN $5 AND $6 LIMIT 300",
		g.ListAll().Template(),
	)
}

func TestPagination(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 30, query.Pagination{}.Limit())
	assert.Equal(t, 30, query.Pagination{PageSize: -4}.Limit())
	assert.Equal(t, 0, query.Pagination{}.Offset())
	assert.Equal(t, 50, query.Pagination{Page: 5, PageSize: 10}.Offset())
	assert.Equal(t, 60, query.Pagination{Page: 2}.Offset())
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total    int64
		pageSize int
		want     int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 30, 4},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, query.TotalPages(tt.total, tt.pageSize), "total=%d size=%d", tt.total, tt.pageSize)
	}
	for total := int64(0); total <= 200; total++ {
		for size := 1; size <= 17; size++ {
			want := int64(math.Ceil(float64(total) / float64(size)))
			require.Equal(t, want, query.TotalPages(total, size), "total=%d size=%d", total, size)
		}
	}
}

func TestNewPaginateEmpty(t *testing.T) {
	t.Parallel()

	page := query.NewPaginate[query.Record](query.Pagination{Page: 4}, 0, nil)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPage)
	assert.Equal(t, 4, page.Page)
	assert.Equal(t, query.DefaultPageSize, page.PageSize)
}

func TestMapPaginate(t *testing.T) {
	t.Parallel()

	page := query.NewPaginate(query.Pagination{Page: 1, PageSize: 2}, 5, []query.Record{{"id": int64(3)}, {"id": int64(4)}})
	ids := query.MapPaginate(page, func(r query.Record) int64 { return r["id"].(int64) })
	assert.Equal(t, &query.Paginate[int64]{Total: 5, TotalPage: 3, Page: 1, PageSize: 2, Data: []int64{3, 4}}, ids)
}

func TestBetweenRange(t *testing.T) {
	t.Parallel()

	b := query.Between[int]{Start: 18, End: 30}
	assert.Equal(t, query.Range{Start: 18, End: 30}, b.Range())
}

func TestCount(t *testing.T) {
	t.Parallel()

	stmt := generator(t, Tag{}, dialect.Postgres).Count()
	assert.Equal(t, "SELECT COUNT(*) FROM tags", stmt.SQL)
	assert.Empty(t, stmt.Args)
	stmt = generator(t, Membership{}, dialect.MySQL).Count()
	assert.Equal(t, "SELECT COUNT(*) FROM `group`", stmt.SQL)
}
