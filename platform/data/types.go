package data

// Types names the kind of value an evaluation produced.
type Types string

const (
	UNDEFINED Types = "undefined"
	NULL      Types = "null"
	BOOL      Types = "bool"
	NUMBER    Types = "number"
	STRING    Types = "string"
	LIST      Types = "list"
	MAP       Types = "map"
	FUNCTION  Types = "function"
	ERROR     Types = "error"
)

// IsNil reports whether values of this type convert to a Go nil.
func (t Types) IsNil() bool {
	return t == UNDEFINED || t == NULL
}
