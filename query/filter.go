package query

import (
	"fmt"
	"reflect"

	"github.com/syssam/crudgen"
	"github.com/syssam/crudgen/dialect/sql"
	"github.com/syssam/crudgen/graph"
)

// Range is an inclusive range filter, rendered as a single BETWEEN clause
// binding Start then End.
type Range struct {
	Start any `json:"start"`
	End   any `json:"end"`
}

// Between is a typed inclusive range, used by generated filters.
type Between[T any] struct {
	Start T `json:"start"`
	End   T `json:"end"`
}

// Range returns the untyped range of b.
func (b Between[T]) Range() Range {
	return Range{Start: b.Start, End: b.End}
}

// filterSet holds the filter fields of find or list. Filters are applied
// in a fixed order: required fields, optional fields, then ranges, each in
// field declaration order.
type filterSet struct {
	required []*graph.Field
	opt      []*graph.Field
	between  []*graph.Field
	list     bool
}

func (s *filterSet) empty() bool {
	return len(s.required)+len(s.opt)+len(s.between) == 0
}

// predicates validates the filter values and returns their predicates in
// application order. A nil optional value, or a nil pointer, is treated as
// absent, and so is a range with both bounds nil.
func (s *filterSet) predicates(required, opt map[string]any, between map[string]Range) ([]sql.Predicate, error) {
	if err := checkKeys(s.required, required, "required filter"); err != nil {
		return nil, err
	}
	if err := checkKeys(s.opt, opt, "optional filter"); err != nil {
		return nil, err
	}
	if err := checkKeys(s.between, between, "range filter"); err != nil {
		return nil, err
	}
	preds := make([]sql.Predicate, 0, len(s.required)+len(opt)+len(between))
	for _, f := range s.required {
		v, ok := required[f.Name]
		if !ok || isNil(v) {
			return nil, crudgen.InvalidArgumentf(f.Name, "missing required filter")
		}
		preds = append(preds, sql.EQ(f.Name, v))
	}
	for _, f := range s.opt {
		v, ok := opt[f.Name]
		if !ok || isNil(v) {
			continue
		}
		if !f.Like(s.list) {
			preds = append(preds, sql.EQ(f.Name, v))
			continue
		}
		sub, err := likeValue(f, v)
		if err != nil {
			return nil, err
		}
		preds = append(preds, sql.ContainsFold(f.Name, sub))
	}
	for _, f := range s.between {
		r, ok := between[f.Name]
		if !ok || isNil(r.Start) && isNil(r.End) {
			continue
		}
		if isNil(r.Start) || isNil(r.End) {
			return nil, crudgen.InvalidArgumentf(f.Name, "range needs both start and end")
		}
		preds = append(preds, sql.Between(f.Name, r.Start, r.End))
	}
	return preds, nil
}

// where writes " WHERE 1=1" followed by the predicates.
func where(b *sql.Builder, preds []sql.Predicate) *sql.Builder {
	b.WriteString(" WHERE 1=1")
	for _, p := range preds {
		b.And(p)
	}
	return b
}

func checkKeys[V any](fields []*graph.Field, values map[string]V, kind string) error {
	for k := range values {
		if !hasField(fields, k) {
			return crudgen.InvalidArgumentf(k, "unknown %s", kind)
		}
	}
	return nil
}

func hasField(fields []*graph.Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// isNil reports whether v is nil or a nil pointer, map, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func likeValue(f *graph.Field, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case *string:
		if v != nil {
			return *v, nil
		}
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", crudgen.InvalidArgumentf(f.Name, "fuzzy filter expects a string, got %T", v)
}
