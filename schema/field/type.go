package field

import "fmt"

// A Type represents a field type.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeString
	TypeText
	TypeInt
	TypeInt64
	TypeFloat64
	TypeDecimal
	TypeTime
	TypeEnum
	TypeUUID
	TypeBytes
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeString:  "string",
	TypeText:    "text",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeFloat64: "float64",
	TypeDecimal: "decimal",
	TypeTime:    "time",
	TypeEnum:    "enum",
	TypeUUID:    "uuid",
	TypeBytes:   "bytes",
}

// goTypes holds the Go type used for a field type in generated code.
var goTypes = [...]string{
	TypeBool:    "bool",
	TypeString:  "string",
	TypeText:    "string",
	TypeInt:     "int",
	TypeInt64:   "int64",
	TypeFloat64: "float64",
	TypeDecimal: "string",
	TypeTime:    "time.Time",
	TypeEnum:    "string",
	TypeUUID:    "uuid.UUID",
	TypeBytes:   "[]byte",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// GoType returns the Go type name used for the field in generated code.
func (t Type) GoType() string {
	if t.Valid() {
		return goTypes[t]
	}
	return "any"
}

// Valid reports if the given type if known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeInt64 || t == TypeFloat64 || t == TypeDecimal
}

// Textual reports if values of the type are stored as text and can be
// matched with LIKE.
func (t Type) Textual() bool {
	return t == TypeString || t == TypeText || t == TypeEnum
}

// ParseType returns the Type for its string representation.
func ParseType(s string) (Type, error) {
	for t := TypeBool; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", s)
}
