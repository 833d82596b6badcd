package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/crudgen/dialect"
)

// reserved words that must be quoted when used as identifiers.
var reserved = map[string]struct{}{
	"all": {}, "alter": {}, "and": {}, "as": {}, "asc": {}, "between": {}, "by": {},
	"case": {}, "check": {}, "column": {}, "constraint": {}, "create": {}, "default": {},
	"delete": {}, "desc": {}, "distinct": {}, "drop": {}, "else": {}, "end": {},
	"exists": {}, "foreign": {}, "from": {}, "grant": {}, "group": {}, "having": {},
	"in": {}, "index": {}, "insert": {}, "into": {}, "is": {}, "join": {}, "key": {},
	"like": {}, "limit": {}, "not": {}, "null": {}, "offset": {}, "on": {}, "or": {},
	"order": {}, "primary": {}, "references": {}, "revoke": {}, "schema": {},
	"select": {}, "set": {}, "table": {}, "then": {}, "to": {}, "union": {},
	"unique": {}, "update": {}, "user": {}, "using": {}, "values": {}, "when": {},
	"where": {}, "with": {},
}

// IsReserved reports whether s is a reserved word that needs quoting.
func IsReserved(s string) bool {
	_, ok := reserved[strings.ToLower(s)]
	return ok
}

// Builder is the base query builder for the sql dsl.
// Placeholders are numbered ($1, $2, ...) on Postgres and positional (?)
// on other dialects.
type Builder struct {
	sb      *strings.Builder
	dialect string
	args    []any
}

// Dialect creates a new Builder with the given dialect.
//
//	b := sql.Dialect(dialect.Postgres)
//	b.WriteString("SELECT ").IdentComma("id", "name")
func Dialect(name string) *Builder {
	return &Builder{sb: &strings.Builder{}, dialect: name}
}

// Dialect returns the dialect of the builder.
func (b *Builder) Dialect() string {
	return b.dialect
}

// Postgres reports if the builder dialect is Postgres.
func (b *Builder) Postgres() bool {
	return b.dialect == dialect.Postgres
}

// WriteString writes a raw string to the builder.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// WriteByte writes a single byte to the builder.
func (b *Builder) WriteByte(c byte) *Builder {
	b.sb.WriteByte(c)
	return b
}

// Pad adds a space to the query.
func (b *Builder) Pad() *Builder {
	return b.WriteByte(' ')
}

// Comma adds a comma to the query.
func (b *Builder) Comma() *Builder {
	return b.WriteString(", ")
}

// Ident appends the given string as an identifier. Identifiers are written
// bare unless they are reserved words, which are quoted per dialect.
func (b *Builder) Ident(s string) *Builder {
	return b.WriteString(b.Quote(s))
}

// IdentComma calls Ident on all arguments and adds a comma between them.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s[i])
	}
	return b
}

// Quote returns the identifier quoted for the builder dialect when it is a
// reserved word, and unchanged otherwise.
func (b *Builder) Quote(ident string) string {
	if !IsReserved(ident) {
		return ident
	}
	if b.dialect == dialect.MySQL {
		return "`" + ident + "`"
	}
	return strconv.Quote(ident)
}

// Arg appends an input argument to the builder and writes its placeholder.
func (b *Builder) Arg(a any) *Builder {
	b.args = append(b.args, a)
	if b.Postgres() {
		b.WriteByte('$').WriteString(strconv.Itoa(len(b.args)))
	} else {
		b.WriteByte('?')
	}
	return b
}

// Args appends a list of arguments to the builder, separated by commas.
func (b *Builder) Args(a ...any) *Builder {
	for i := range a {
		if i > 0 {
			b.Comma()
		}
		b.Arg(a[i])
	}
	return b
}

// Int writes an integer literal. Used for LIMIT and OFFSET values, which
// are not bound as arguments.
func (b *Builder) Int(n int) *Builder {
	return b.WriteString(strconv.Itoa(n))
}

// Len returns the number of bytes written.
func (b *Builder) Len() int {
	return b.sb.Len()
}

// String returns the accumulated query string.
func (b *Builder) String() string {
	return b.sb.String()
}

// Query returns the accumulated query string and its arguments.
func (b *Builder) Query() (string, []any) {
	return b.sb.String(), b.args
}
