package xpdo

// Pattern-matching mode used by `Like`.
type LikeMode string

const (
	LikeContains   LikeMode = `contains`
	LikeStartsWith LikeMode = `starts_with`
	LikeEndsWith   LikeMode = `ends_with`
)

/*
Transforms a literal into a LIKE pattern. Unknown modes leave the literal as-is.
Literals are not escaped: "%" and "_" inside them keep their special meaning.
*/
func (self LikeMode) Pattern(val string) string {
	switch self {
	case LikeContains:
		return `%` + val + `%`
	case LikeStartsWith:
		return val + `%`
	case LikeEndsWith:
		return `%` + val
	default:
		return val
	}
}

/*
Pattern-match condition over one column. Renders into a parenthesized OR-chain
with one bind per value:

	like := xpdo.NewLike(xpdo.LikeContains, `users.username`, `tom`, `jim`)

	(users.username LIKE :_<ns>_where_like_<id>_users_username_0 OR users.username LIKE :_<ns>_where_like_<id>_users_username_1)

Attach to a query via `Query.AddLike`. A `Like` without values renders nothing.
*/
type Like struct {
	mode   LikeMode
	column string
	values []string
	id     string
}

func (*Like) isWhereValue() {}

// Creates a `Like`. Duplicate values are ignored.
func NewLike(mode LikeMode, column string, values ...string) *Like {
	return &Like{mode: mode, column: column, values: uniqStrings(values)}
}

// Matching mode.
func (self *Like) Mode() LikeMode { return self.mode }

// Sets the matching mode.
func (self *Like) SetMode(val LikeMode) *Like {
	self.mode = val
	return self
}

// Target column.
func (self *Like) Column() string { return self.column }

// Sets the target column.
func (self *Like) SetColumn(val string) *Like {
	self.column = val
	return self
}

// Returns a copy of the values in insertion order.
func (self *Like) Values() []string { return copyStrings(self.values) }

// Replaces all values, dropping duplicates.
func (self *Like) SetValues(vals ...string) *Like {
	self.values = uniqStrings(vals)
	return self
}

// Adds a value unless it's already present.
func (self *Like) AddValue(val string) *Like {
	self.values = appendUniq(self.values, val)
	return self
}

/*
Unique token used to namespace the bind names of this `Like`, generated on
first use and stable afterwards.
*/
func (self *Like) ID() string {
	if self.id == `` {
		self.id = newID()
	}
	return self.id
}

/*
Renders the condition, namespacing bind names with `ns` (normally the identity
of the owning query) and with the identity of this `Like`. Without values,
returns an empty string and empty binds.
*/
func (self *Like) Build(ns string) (string, Binds) {
	out := bui{binds: Binds{}}
	self.render(&out, ns)
	return out.String(), out.binds
}

func (self *Like) render(bui *bui, ns string) {
	if len(self.values) == 0 {
		return
	}

	tag := `where_like_` + self.ID()

	bui.str(`(`)
	for ind, val := range self.values {
		bui.sep(ind, `OR`)
		bui.cond(self.column, `LIKE`, bindNameIndexed(ns, tag, self.column, ind), self.mode.Pattern(val))
	}
	bui.str(`)`)
}
