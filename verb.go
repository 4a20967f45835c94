package xpdo

import (
	"regexp"
	"strings"
)

/*
Statement type such as "SELECT". `Query.SetType` upper-cases its input, so
these constants compare equal to whatever the caller passed in any case.
*/
type Type string

const (
	TypeSelect Type = `SELECT`
	TypeInsert Type = `INSERT`
	TypeUpdate Type = `UPDATE`
	TypeDelete Type = `DELETE`
	TypeShow   Type = `SHOW`
)

// Implement `fmt.Stringer`.
func (self Type) String() string { return string(self) }

// True if the type is one the renderer knows how to build.
func (self Type) IsValid() bool {
	switch self {
	case TypeSelect, TypeInsert, TypeUpdate, TypeDelete, TypeShow:
		return true
	default:
		return false
	}
}

var verbReg = regexp.MustCompile(`^\s*?([A-Za-z]+)\s+`)

/*
Returns the upper-cased leading verb of the given SQL, or "" when the text
doesn't start with a run of letters followed by whitespace. Leading and
trailing whitespace, including newlines, is ignored:

	xpdo.Verb("  \n select *\nfrom users") // "SELECT"
	xpdo.Verb("commit")                   // ""
*/
func Verb(src string) string {
	match := verbReg.FindStringSubmatch(strings.TrimSpace(src))
	if match == nil {
		return ``
	}
	return strings.ToUpper(match[1])
}

// Same as `Verb` but returns a `Type`.
func VerbType(src string) Type { return Type(Verb(src)) }
