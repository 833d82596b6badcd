package sql

// Predicate is a where predicate that writes itself into a Builder.
type Predicate func(*Builder)

// P creates a new predicate.
//
//	P(func(b *Builder) {
//		b.Ident("name").WriteString(" = ").Arg("a8m")
//	})
func P(fn func(*Builder)) Predicate {
	return Predicate(fn)
}

// EQ returns a "=" predicate.
func EQ(col string, value any) Predicate {
	return func(b *Builder) {
		b.Ident(col).WriteString(" = ").Arg(value)
	}
}

// NEQ returns a "<>" predicate.
func NEQ(col string, value any) Predicate {
	return func(b *Builder) {
		b.Ident(col).WriteString(" <> ").Arg(value)
	}
}

// ContainsFold returns a case-insensitive substring predicate. The value is
// wrapped in '%' and bound as an argument; LIKE wildcards inside sub are not
// escaped.
//
//	Postgres:      name ILIKE $1
//	MySQL, SQLite: LOWER(name) LIKE LOWER(?)
func ContainsFold(col string, sub string) Predicate {
	return func(b *Builder) {
		arg := "%" + sub + "%"
		if b.Postgres() {
			b.Ident(col).WriteString(" ILIKE ").Arg(arg)
			return
		}
		b.WriteString("LOWER(").Ident(col).WriteString(") LIKE LOWER(").Arg(arg).WriteByte(')')
	}
}

// Between returns a "BETWEEN" predicate. Both bounds are inclusive.
func Between(col string, start, end any) Predicate {
	return func(b *Builder) {
		b.Ident(col).WriteString(" BETWEEN ").Arg(start).WriteString(" AND ").Arg(end)
	}
}

// And writes " AND " followed by the predicate.
func (b *Builder) And(p Predicate) *Builder {
	b.WriteString(" AND ")
	p(b)
	return b
}

// Where writes " WHERE " followed by the predicate.
func (b *Builder) Where(p Predicate) *Builder {
	b.WriteString(" WHERE ")
	p(b)
	return b
}
