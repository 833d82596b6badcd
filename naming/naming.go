// Package naming derives SQL and Go identifiers from entity and field names.
//
// Table names follow a deliberately naive rule: snake_case the entity name and
// append "s". Irregular plurals are not handled; schemas that need a different
// table name set crudgen.Config.Table explicitly.
//
//	naming.TableName("UserPurchasedService") // "user_purchased_services"
//	naming.VariantName("user_id")            // "UserId"
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SnakeCase converts a PascalCase or camelCase string to snake_case by
// inserting an underscore before each interior upper-case letter.
//
//	"UserID"    -> "user_i_d"
//	"CreatedAt" -> "created_at"
func SnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TableName returns the table name for an entity: snake_case plus a literal "s".
func TableName(entity string) string {
	return SnakeCase(entity) + "s"
}

// EntityName reverses TableName: it strips one trailing "s" and converts the
// remainder to PascalCase.
func EntityName(table string) string {
	return VariantName(strings.TrimSuffix(table, "s"))
}

// VariantName converts a snake_case field name to PascalCase. Each segment has
// its first letter upper-cased and the rest lower-cased; empty segments are
// dropped.
func VariantName(name string) string {
	// A Caser keeps state between calls and must not be shared across goroutines.
	title := cases.Title(language.Und)
	var b strings.Builder
	b.Grow(len(name))
	for _, seg := range strings.Split(name, "_") {
		if seg == "" {
			continue
		}
		b.WriteString(title.String(seg))
	}
	return b.String()
}
