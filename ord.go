package xpdo

import (
	"regexp"
	"strings"
)

const (
	DirNone Dir = 0
	DirAsc  Dir = 1
	DirDesc Dir = 2
)

// Short for "direction". Enum for ordering direction: none, "ASC", "DESC".
type Dir byte

// Implement `fmt.Stringer`.
func (self Dir) String() string {
	switch self {
	default:
		return ``
	case DirAsc:
		return `ASC`
	case DirDesc:
		return `DESC`
	}
}

// Parses from a string, which must be empty, "asc" or "desc", in any case.
func (self *Dir) Parse(src string) error {
	switch strings.ToLower(src) {
	case ``:
		*self = DirNone
		return nil
	case `asc`:
		*self = DirAsc
		return nil
	case `desc`:
		*self = DirDesc
		return nil
	default:
		return ErrInvalidInput.while(`parsing order direction`).because(errf(`unrecognized direction %q`, src))
	}
}

// Implement `encoding.TextMarshaler`.
func (self Dir) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(self.String())), nil
}

// Implement `encoding.TextUnmarshaler`.
func (self *Dir) UnmarshalText(src []byte) error {
	return self.Parse(string(src))
}

/*
Adds an ordering such as "created_at DESC". `DirNone` adds the bare expression.
The expression is emitted verbatim.
*/
func (self *Query) AddOrder(expr string, dir Dir) *Query {
	if dir == DirNone {
		return self.AddOrderBy(expr)
	}
	return self.AddOrderBy(expr + ` ` + dir.String())
}

var ordReg = regexp.MustCompile(`^\s*((?:\w+\.)*\w+)(?i)(?:\s+(asc|desc))?\s*$`)

/*
Parses a comma-separated ordering string, such as one taken from a URL query,
and adds each item via `.AddOrder`:

	err := q.ParseOrderBy(`created_at desc, users.username`)

	ORDER BY created_at DESC, users.username

Each item must be an identifier path, optionally followed by "asc" or "desc".
Anything else is rejected with `ErrInvalidInput` and nothing is added, which
makes this safe to use with untrusted input, unlike `.AddOrderBy`.
*/
func (self *Query) ParseOrderBy(src string) error {
	type ord struct {
		expr string
		dir  Dir
	}

	var ords []ord
	for _, item := range strings.Split(src, `,`) {
		if strings.TrimSpace(item) == `` {
			continue
		}

		match := ordReg.FindStringSubmatch(item)
		if match == nil {
			return ErrInvalidInput.while(`parsing ordering`).because(errf(
				`%q is not a valid ordering string; expected format: "<ident> asc|desc"`, item,
			))
		}

		var dir Dir
		err := dir.Parse(match[2])
		if err != nil {
			return err
		}
		ords = append(ords, ord{match[1], dir})
	}

	for _, val := range ords {
		self.AddOrder(val.expr, val.dir)
	}
	return nil
}
