package report

import "fmt"

// ErrorKind identifies one diagnostic in the compiler's taxonomy.  Every
// compile error the front end can produce is one of these kinds; the kind
// selects the message template, the hint template, and the position anchor.
type ErrorKind int

const (
	// expectation errors
	Missing ErrorKind = iota
	Expect
	ExpectedFound
	Redundant

	// declaration errors
	RedeclaredIdent
	RedeclaredProc
	UndeclaredIdent
	UndeclaredProc
	UndefinedProc
	IncompatibleVarList

	// form errors
	IllegalDefine
	IllegalWord
	IllegalRValueAssign

	// general syntax errors
	SyntaxError
	InvalidSyntax
	UnexpectedToken
)

// template pairs a message format with its hint format.  nArgs and nHint are
// the number of extras each consumes; the hint always consumes a prefix of
// the extras the message uses.
type template struct {
	msg   string
	hint  string
	nArgs int
	nHint int
}

var templates = map[ErrorKind]template{
	Missing:       {"missing %s", "Expected '%s' here", 1, 1},
	Expect:        {"expected %s", "Expected '%s' here", 1, 1},
	ExpectedFound: {"expected %s, but found %s", "Did you mean '%s' instead of '%s'?", 2, 2},
	Redundant:     {"extraneous %s", "Remove '%s' here", 1, 1},

	RedeclaredIdent:     {"redeclaration of '%s'", "'%s' is already declared in this scope", 1, 1},
	RedeclaredProc:      {"redeclaration of procedure '%s'", "'%s' is already declared in this scope", 1, 1},
	UndeclaredIdent:     {"use of undeclared identifier '%s'", "Declare '%s' first", 1, 1},
	UndeclaredProc:      {"use of undeclared procedure '%s'", "Declare '%s' first", 1, 1},
	UndefinedProc:       {"call to undefined procedure '%s'", "Define '%s' first", 1, 1},
	IncompatibleVarList: {"argument count mismatch", "", 0, 0},

	IllegalDefine:       {"invalid %s", "Please check the '%s'", 1, 1},
	IllegalWord:         {"invalid token %s", "Please check the '%s'", 1, 1},
	IllegalRValueAssign: {"expression is not assignable", "", 0, 0},

	SyntaxError:     {"%s; expected %s", "Please check the syntax: '%s'", 2, 1},
	InvalidSyntax:   {"invalid syntax", "", 0, 0},
	UnexpectedToken: {"unexpected token '%s'", "", 1, 0},
}

// Message renders the diagnostic message for the kind.  Extras beyond what
// the template consumes are ignored so callers can pass a uniform slice.
func (k ErrorKind) Message(extras ...string) string {
	t := templates[k]
	if t.nArgs == 0 {
		return t.msg
	}

	return fmt.Sprintf(t.msg, toIfaces(extras, t.nArgs)...)
}

// Hint renders the hint line for the kind, or the empty string when the kind
// carries none.
func (k ErrorKind) Hint(extras ...string) string {
	t := templates[k]
	if t.hint == "" {
		return ""
	}

	return fmt.Sprintf(t.hint, toIfaces(extras, t.nHint)...)
}

func toIfaces(extras []string, n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		if i < len(extras) {
			args[i] = extras[i]
		} else {
			args[i] = ""
		}
	}

	return args
}

// positionAnchor selects which source position a diagnostic points at.
type positionAnchor int

const (
	anchorCurrent   positionAnchor = iota // start of the current token
	anchorAfterPrev                       // one column past the previous token
	anchorPrevEnd                         // last character of the previous token
)

func (k ErrorKind) anchor() positionAnchor {
	switch k {
	case Missing:
		return anchorAfterPrev
	case IllegalRValueAssign, IncompatibleVarList:
		return anchorPrevEnd
	default:
		return anchorCurrent
	}
}

// Position is a 1-based row and column in the source file.  A token's
// position is that of its first character.
type Position struct {
	Row int
	Col int
}
