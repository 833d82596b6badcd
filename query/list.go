package query

import (
	"math"
	"regexp"
	"strings"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/graph"
)

// Default sizes of list and list-all.
const (
	DefaultPageSize = 30
	DefaultLimit    = 300
)

// Pagination is a page request. Pages are zero-based.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Limit returns the page size, DefaultPageSize when unset.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// Offset returns the number of rows skipped before the page.
func (p Pagination) Offset() int {
	return p.Page * p.Limit()
}

// Paginate is a page of rows with the totals of the whole result.
type Paginate[T any] struct {
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Data      []T   `json:"data"`
}

// NewPaginate returns the page envelope of data for the request p.
func NewPaginate[T any](p Pagination, total int64, data []T) *Paginate[T] {
	return &Paginate[T]{
		Total:     total,
		TotalPage: TotalPages(total, p.Limit()),
		Page:      p.Page,
		PageSize:  p.Limit(),
		Data:      data,
	}
}

// MapPaginate returns a copy of p with every row converted by fn.
func MapPaginate[T, U any](p *Paginate[T], fn func(T) U) *Paginate[U] {
	data := make([]U, len(p.Data))
	for i, v := range p.Data {
		data[i] = fn(v)
	}
	return &Paginate[U]{
		Total:     p.Total,
		TotalPage: p.TotalPage,
		Page:      p.Page,
		PageSize:  p.PageSize,
		Data:      data,
	}
}

// TotalPages returns ceil(total / pageSize), or 0 when either is not
// positive.
func TotalPages(total int64, pageSize int) int64 {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	size := int64(pageSize)
	return (total + size - 1) / size
}

// ListFilter filters a paginated list. Required holds one value per
// required field; Opt and Between hold optional filters keyed by column.
// Order overrides the default "<pk> DESC".
type ListFilter struct {
	Pagination
	Order    string
	Required map[string]any
	Opt      map[string]any
	Between  map[string]Range
}

// ListAllFilter filters an unpaginated list capped at Limit rows
// (DefaultLimit when unset). Rows are unordered unless Order is set.
type ListAllFilter struct {
	Limit    int
	Order    string
	Required map[string]any
	Opt      map[string]any
	Between  map[string]Range
}

// ListOp selects one page of rows and counts the whole result.
//
//	SELECT id, name, is_del FROM tags WHERE 1=1 AND name ILIKE $1 ORDER BY id DESC LIMIT 10 OFFSET 0
//	SELECT COUNT(*) FROM tags WHERE 1=1 AND name ILIKE $1
type ListOp struct {
	g       *Generator
	filters filterSet
}

func newListOp(g *Generator) *ListOp {
	return &ListOp{g: g, filters: listFilters(g.typ)}
}

func listFilters(t *graph.Type) filterSet {
	return filterSet{
		required: t.ListFields(),
		opt:      t.ListOptFields(),
		between:  t.ListOptBetweenFields(),
		list:     true,
	}
}

// Bind returns the data and count statements of the filter. Both bind the
// same arguments in the same order.
func (op *ListOp) Bind(f ListFilter) (data, count Statement, err error) {
	if f.Page < 0 {
		return data, count, crudgen.InvalidArgumentf("page", "negative page %d", f.Page)
	}
	if f.Page > math.MaxInt/f.Limit() {
		return data, count, crudgen.InvalidArgumentf("page", "page %d of size %d is out of range", f.Page, f.Limit())
	}
	order, err := op.g.orderBy(f.Order, true)
	if err != nil {
		return data, count, err
	}
	preds, err := op.filters.predicates(f.Required, f.Opt, f.Between)
	if err != nil {
		return data, count, err
	}
	b := where(op.g.selectFrom(op.g.builder()), preds)
	b.WriteString(" ORDER BY ").WriteString(order)
	b.WriteString(" LIMIT ").Int(f.Limit()).WriteString(" OFFSET ").Int(f.Offset())
	data.SQL, data.Args = b.Query()

	b = op.g.builder().WriteString("SELECT COUNT(*) FROM ").Ident(op.g.typ.Table)
	count.SQL, count.Args = where(b, preds).Query()
	return data, count, nil
}

// Template returns the data statement with every filter active.
func (op *ListOp) Template() string {
	data, _, _ := op.Bind(ListFilter{
		Required: templateValues(op.filters.required),
		Opt:      templateValues(op.filters.opt),
		Between:  templateRanges(op.filters.between),
	})
	return data.SQL
}

// ListAllOp selects up to a capped number of rows.
//
//	SELECT id, name, is_del FROM tags WHERE 1=1 AND user_id = $1 LIMIT 300
type ListAllOp struct {
	g       *Generator
	filters filterSet
}

func newListAllOp(g *Generator) *ListAllOp {
	return &ListAllOp{g: g, filters: listFilters(g.typ)}
}

// Bind returns the statement of the filter.
func (op *ListAllOp) Bind(f ListAllFilter) (Statement, error) {
	if f.Limit < 0 {
		return Statement{}, crudgen.InvalidArgumentf("limit", "negative limit %d", f.Limit)
	}
	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	order, err := op.g.orderBy(f.Order, false)
	if err != nil {
		return Statement{}, err
	}
	preds, err := op.filters.predicates(f.Required, f.Opt, f.Between)
	if err != nil {
		return Statement{}, err
	}
	b := where(op.g.selectFrom(op.g.builder()), preds)
	if order != "" {
		b.WriteString(" ORDER BY ").WriteString(order)
	}
	b.WriteString(" LIMIT ").Int(limit)
	query, args := b.Query()
	return Statement{SQL: query, Args: args}, nil
}

// Template returns the statement with every filter active.
func (op *ListAllOp) Template() string {
	stmt, _ := op.Bind(ListAllFilter{
		Required: templateValues(op.filters.required),
		Opt:      templateValues(op.filters.opt),
		Between:  templateRanges(op.filters.between),
	})
	return stmt.SQL
}

var orderTerm = regexp.MustCompile(`(?i)^([a-z_][a-z0-9_]*)(?:\s+(asc|desc))?(?:\s+nulls\s+(first|last))?$`)

// orderBy validates an order override and renders it with quoted
// identifiers. Each term must name a column of the entity. An empty
// override yields "<pk> DESC" when byID is set.
func (g *Generator) orderBy(s string, byID bool) (string, error) {
	b := g.builder()
	if strings.TrimSpace(s) == "" {
		if byID {
			b.Ident(g.typ.ID.Name).WriteString(" DESC")
		}
		return b.String(), nil
	}
	for i, term := range strings.Split(s, ",") {
		m := orderTerm.FindStringSubmatch(strings.Join(strings.Fields(term), " "))
		if m == nil {
			return "", crudgen.InvalidArgumentf("order", "invalid term %q", strings.TrimSpace(term))
		}
		if _, ok := g.typ.Field(m[1]); !ok {
			return "", crudgen.InvalidArgumentf("order", "unknown column %q", m[1])
		}
		if i > 0 {
			b.Comma()
		}
		b.Ident(m[1])
		if m[2] != "" {
			b.Pad().WriteString(strings.ToUpper(m[2]))
		}
		if m[3] != "" {
			if g.dialect == dialect.MySQL {
				return "", crudgen.InvalidArgumentf("order", "NULLS %s is not supported by mysql", strings.ToUpper(m[3]))
			}
			b.WriteString(" NULLS ").WriteString(strings.ToUpper(m[3]))
		}
	}
	return b.String(), nil
}
