package syntax

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/dop251/goja/file"
)

const (
	// EntryName is the name of the wrapper function declaration.
	EntryName = "__seval_unit"

	// SandboxName is the wrapper parameter that carries the neutralizing scope object.
	SandboxName = "__seval_sandbox"

	reservedPrefix = "__seval"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var reservedWords = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "eval": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "new": true, "null": true,
	"package": true, "private": true, "protected": true, "public": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
}

// Position is a 1-based line and column inside the caller's body text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position points somewhere.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Source is a function body wrapped into the one-declaration program handed to the parser.
type Source struct {
	body    string
	params  []string
	wrapped string
	prefix  int
}

// NewSource wraps body as the body of the entry function. The first wrapper parameter
// is the sandbox scope; params follow it in order.
func NewSource(body string, params []string) (*Source, error) {
	if err := CheckParams(params); err != nil {
		return nil, err
	}

	names := append([]string{SandboxName}, params...)
	prefix := fmt.Sprintf("function %s(%s) { with (%s) {\n",
		EntryName, strings.Join(names, ", "), SandboxName)

	return &Source{
		body:    body,
		params:  slices.Clone(params),
		wrapped: prefix + body + "\n} }",
		prefix:  len(prefix),
	}, nil
}

// CheckParams rejects parameter lists that could not be declared as plain identifiers.
func CheckParams(params []string) error {
	seen := make(map[string]bool, len(params))
	for _, name := range params {
		switch {
		case !identPattern.MatchString(name):
			return fmt.Errorf("%w: %q is not an identifier", ErrInvalidParam, name)
		case reservedWords[name]:
			return fmt.Errorf("%w: %q is a reserved word", ErrInvalidParam, name)
		case strings.HasPrefix(name, reservedPrefix):
			return fmt.Errorf("%w: %q uses the reserved %s prefix", ErrInvalidParam, name, reservedPrefix)
		case seen[name]:
			return fmt.Errorf("%w: %q is declared twice", ErrInvalidParam, name)
		}
		seen[name] = true
	}
	return nil
}

// Body returns the caller's text, without the wrapper.
func (s *Source) Body() string {
	return s.body
}

// Params returns a copy of the declared parameter names.
func (s *Source) Params() []string {
	return slices.Clone(s.params)
}

// Wrapped returns the full program text given to the parser.
func (s *Source) Wrapped() string {
	return s.wrapped
}

// Position maps a parser offset back into the body text. Offsets that fall in the
// wrapper are clamped to the nearest body edge.
func (s *Source) Position(idx file.Idx) Position {
	if idx <= 0 {
		return Position{}
	}

	// goja offsets are 1-based when parsed without a file set
	off := int(idx) - 1 - s.prefix
	off = max(0, min(off, len(s.body)))

	before := s.body[:off]
	line := 1 + strings.Count(before, "\n")
	col := off + 1
	if nl := strings.LastIndexByte(before, '\n'); nl >= 0 {
		col = off - nl
	}
	return Position{Line: line, Column: col}
}
