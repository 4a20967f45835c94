package xpdo

/*
Describes a single join clause:

	xpdo.NewJoin(`LEFT JOIN`, `user_groups`, `users.user_id = user_groups.user_id`)

renders as:

	LEFT JOIN user_groups ON users.user_id = user_groups.user_id

Conditions are raw SQL and are joined with "AND". Duplicate conditions are
ignored. The table and conditions are emitted verbatim; the caller is
responsible for their safety.
*/
type Join struct {
	kind  string
	table string
	conds []string
}

// Creates a join. An empty kind means "JOIN".
func NewJoin(kind, table string, conds ...string) *Join {
	if kind == `` {
		kind = defaultJoinKind
	}
	return &Join{kind: kind, table: table, conds: uniqStrings(conds)}
}

// Join kind such as "JOIN" or "LEFT JOIN".
func (self *Join) Kind() string { return self.kind }

// Target table.
func (self *Join) Table() string { return self.table }

// Returns a copy of the conditions in insertion order.
func (self *Join) Conditions() []string { return copyStrings(self.conds) }

// Adds a condition unless it's already present.
func (self *Join) AddCondition(cond string) *Join {
	self.conds = appendUniq(self.conds, cond)
	return self
}

/*
Returns "<kind> <table> ON <cond> AND <cond> ...". Without conditions, the text
after "ON" is empty.
*/
func (self *Join) String() string {
	return bytesToMutableString(self.Append(nil))
}

// Appends the rendered join to the buffer, space-separated as necessary.
func (self *Join) Append(text []byte) []byte {
	out := bui{text: text}
	self.render(&out)
	return out.text
}

func (self *Join) render(bui *bui) {
	bui.str(self.kind)
	bui.str(self.table)
	bui.str(`ON`)
	for ind, cond := range self.conds {
		bui.sep(ind, `AND`)
		bui.str(cond)
	}
}
