package dbx

import (
	"fmt"
	"strings"

	"github.com/mitranim/sqlp"
	"github.com/tomwright/xpdo"
)

// Placeholder syntax expected by a database driver.
type Placeholder byte

const (
	// "?" as used by MySQL and SQLite.
	PlaceholderQuestion Placeholder = iota

	// "$1", "$2", ... as used by Postgres.
	PlaceholderDollar
)

// Returns the placeholder syntax conventionally used by the given driver name.
func PlaceholderFor(driver string) Placeholder {
	switch strings.ToLower(driver) {
	case `postgres`, `pgx`:
		return PlaceholderDollar
	default:
		return PlaceholderQuestion
	}
}

/*
Converts SQL with named params such as ":_abc_where_username" into SQL with
positional params understood by "database/sql" drivers, returning the args in
the matching order. Named params are looked up in `binds` with or without the
leading colon. Params inside quoted strings, quoted identifiers and comments
are left alone, and so is the Postgres cast syntax "::".

For `PlaceholderQuestion`, every occurrence of a named param becomes "?" with
its own argument. For `PlaceholderDollar`, repeated occurrences reuse the same
ordinal.

Fails with `xpdo.ErrMissingArgument` when a named param has no value, and with
`xpdo.ErrUnexpectedParam` when the SQL already contains ordinal params such as
"$1". Unused binds are ignored.
*/
func Positional(src string, binds xpdo.Binds, style Placeholder) (_ string, _ []any, err error) {
	defer rec(&err)

	tokenizer := sqlp.Tokenizer{Source: src}
	buf := make([]byte, 0, len(src))
	var args []any
	var namedToOrd map[sqlp.NodeNamedParam]sqlp.NodeOrdinalParam

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeOrdinalParam:
			return ``, nil, xpdo.Err{
				Code:  xpdo.ErrCodeUnexpectedParam,
				While: `converting named params to positional`,
				Cause: fmt.Errorf(`expected only named params, got ordinal param %v`, node),
			}

		case sqlp.NodeNamedParam:
			arg, found := binds.Got(string(node))
			if !found {
				return ``, nil, xpdo.Err{
					Code:  xpdo.ErrCodeMissingArgument,
					While: `converting named params to positional`,
					Cause: fmt.Errorf(`missing named argument %q`, string(node)),
				}
			}

			if style == PlaceholderDollar {
				ord, ok := namedToOrd[node]
				if !ok {
					args = append(args, arg)
					ord = sqlp.NodeOrdinalParam(len(args))
					if namedToOrd == nil {
						namedToOrd = map[sqlp.NodeNamedParam]sqlp.NodeOrdinalParam{}
					}
					namedToOrd[node] = ord
				}
				ord.Append(&buf)
				continue
			}

			args = append(args, arg)
			buf = append(buf, '?')

		default:
			node.Append(&buf)
		}
	}

	return string(buf), args, nil
}
