package xpdo

import (
	"strings"
)

/*
Statement builder. Accumulates structural directives, then renders them into
SQL text with named bind parameters via `.Build`:

	q := xpdo.New(xpdo.TypeSelect).
		SetTable(`users`).
		AddWhere(`username !=`, `Frank`).
		AddOrderBy(`user_id DESC`)

	err := q.Build()
	text, binds := q.SQL(), q.Binds()

The zero value is usable after `.SetType`. A query is a mutable value owned by
one caller at a time and has no internal locking.

Table names, field expressions, join and where keys, order-bys, group-bys and
raw fragments are emitted verbatim and are NOT escaped. Only values routed
through bind parameters are safe to take from untrusted input.
*/
type Query struct {
	typ        Type
	table      string
	fields     []string
	values     []assignment
	dupeValues []assignment
	joins      []*Join
	wheres     []whereEntry
	orderBys   []string
	groupBys   []string
	limit      int
	offset     int
	hasLimit   bool
	hasOffset  bool
	keepBools  bool
	id         string
	sql        string
	binds      Binds
	live       Binds
}

type assignment struct {
	name string
	val  any
	raw  bool
}

type whereEntry struct {
	key string
	val WhereValue
}

// Creates a query of the given type.
func New(typ Type) *Query { return new(Query).SetType(typ) }

// Shortcut for `New(TypeSelect).SetTable(table)`.
func Select(table string) *Query { return New(TypeSelect).SetTable(table) }

// Shortcut for `New(TypeInsert).SetTable(table)`.
func Insert(table string) *Query { return New(TypeInsert).SetTable(table) }

// Shortcut for `New(TypeUpdate).SetTable(table)`.
func Update(table string) *Query { return New(TypeUpdate).SetTable(table) }

// Shortcut for `New(TypeDelete).SetTable(table)`.
func Delete(table string) *Query { return New(TypeDelete).SetTable(table) }

// Returns the input if non-nil, otherwise a new empty query.
func Get(query *Query) *Query {
	if query != nil {
		return query
	}
	return new(Query)
}

/*
Unique token namespacing the bind names generated by this query, generated on
first use and stable afterwards.
*/
func (self *Query) ID() string {
	if self.id == `` {
		self.id = newID()
	}
	return self.id
}

func (self *Query) Type() Type { return self.typ }

// Sets the statement type, trimmed and upper-cased.
func (self *Query) SetType(val Type) *Query {
	self.typ = Type(strings.ToUpper(strings.TrimSpace(string(val))))
	return self
}

func (self *Query) Table() string { return self.table }

func (self *Query) SetTable(val string) *Query {
	self.table = val
	return self
}

// Returns a copy of the selected fields. Defaults to "*".
func (self *Query) Fields() []string {
	if len(self.fields) == 0 {
		return []string{defaultField}
	}
	return copyStrings(self.fields)
}

// Replaces the selected fields. Calling this without arguments resets to "*".
func (self *Query) SetFields(vals ...string) *Query {
	self.fields = uniqStrings(vals)
	return self
}

// Adds a selected field unless it's already present.
func (self *Query) AddField(val string) *Query {
	self.fields = appendUniq(self.fields, val)
	return self
}

// Returns a copy of the joins.
func (self *Query) Joins() []*Join {
	if self.joins == nil {
		return nil
	}
	out := make([]*Join, len(self.joins))
	copy(out, self.joins)
	return out
}

// Replaces the joins. Nil entries and repeated pointers are dropped.
func (self *Query) SetJoins(vals ...*Join) *Query {
	self.joins = nil
	for _, val := range vals {
		self.AddJoin(val)
	}
	return self
}

// Adds a join unless the same `*Join` is already present. Nil is a nop.
func (self *Query) AddJoin(val *Join) *Query {
	if val == nil {
		return self
	}
	for _, prev := range self.joins {
		if prev == val {
			return self
		}
	}
	self.joins = append(self.joins, val)
	return self
}

// Number of where-conditions.
func (self *Query) WhereLen() int { return len(self.wheres) }

// Returns the value stored under the given where key.
func (self *Query) GotWhere(key string) (WhereValue, bool) {
	ind := self.whereIndex(key)
	if ind < 0 {
		return nil, false
	}
	return self.wheres[ind].val, true
}

// Removes all where-conditions.
func (self *Query) ClearWheres() *Query {
	self.wheres = nil
	return self
}

// Replaces all where-conditions. Map iteration order is random, so the order
// of the resulting conditions is sorted by key.
func (self *Query) SetWheres(vals map[string]any) *Query {
	self.wheres = nil
	for _, key := range sortedKeys(vals) {
		self.AddWhere(key, vals[key])
	}
	return self
}

/*
Adds a where-condition, classifying the value: `WhereValue` implementations are
used as-is, `*Query` becomes a sub-query, slices and arrays other than `[]byte`
become an IN-list, anything else is a scalar. See `WhereValue`.

Adding a key that already exists replaces its value in place, keeping the
original position in the AND-chain.
*/
func (self *Query) AddWhere(key string, val any) *Query {
	return self.Where(key, whereValueOf(val))
}

// Same as `.AddWhere` but takes an explicit variant. Nil is a nop.
func (self *Query) Where(key string, val WhereValue) *Query {
	if val == nil {
		return self
	}
	ind := self.whereIndex(key)
	if ind >= 0 {
		self.wheres[ind].val = val
	} else {
		self.wheres = append(self.wheres, whereEntry{key, val})
	}
	return self
}

/*
Adds a verbatim SQL condition. The reference names the condition so that it can
be replaced later; an empty reference generates a unique one. Named params used
in the text must be provided via `.AddBind`.
*/
func (self *Query) AddRawWhere(sql, ref string) *Query {
	if ref == `` {
		ref = newID()
	}
	return self.Where(rawWherePrefix+ref, Raw(sql))
}

// Attaches a `Like` condition, keyed by its identity. Nil is a nop.
func (self *Query) AddLike(val *Like) *Query {
	if val == nil {
		return self
	}
	return self.Where(likeWherePrefix+val.ID(), val)
}

func (self *Query) whereIndex(key string) int {
	for ind, entry := range self.wheres {
		if entry.key == key {
			return ind
		}
	}
	return -1
}

// Removes all assignments.
func (self *Query) ClearValues() *Query {
	self.values = nil
	return self
}

// Replaces all assignments, sorted by column name.
func (self *Query) SetValues(vals map[string]any) *Query {
	self.values = nil
	for _, key := range sortedKeys(vals) {
		self.AddValue(key, vals[key])
	}
	return self
}

/*
Adds an assignment used by INSERT and UPDATE, rendered as
"<name> = :_<id>_update_bind_<name>". Re-adding a name replaces its value in
place.
*/
func (self *Query) AddValue(name string, val any) *Query {
	self.values = setAssignment(self.values, assignment{name, val, false})
	return self
}

// Adds an assignment whose value is emitted verbatim, such as "NOW()".
func (self *Query) AddRawValue(name, sql string) *Query {
	self.values = setAssignment(self.values, assignment{name, sql, true})
	return self
}

// Number of assignments.
func (self *Query) ValueLen() int { return len(self.values) }

// Removes all ON DUPLICATE KEY UPDATE assignments.
func (self *Query) ClearOnDupeValues() *Query {
	self.dupeValues = nil
	return self
}

// Replaces all ON DUPLICATE KEY UPDATE assignments, sorted by column name.
func (self *Query) SetOnDupeValues(vals map[string]any) *Query {
	self.dupeValues = nil
	for _, key := range sortedKeys(vals) {
		self.AddOnDupeValue(key, vals[key])
	}
	return self
}

// Adds an assignment for the ON DUPLICATE KEY UPDATE clause of an INSERT.
func (self *Query) AddOnDupeValue(name string, val any) *Query {
	self.dupeValues = setAssignment(self.dupeValues, assignment{name, val, false})
	return self
}

// Verbatim variant of `.AddOnDupeValue`.
func (self *Query) AddOnDupeRawValue(name, sql string) *Query {
	self.dupeValues = setAssignment(self.dupeValues, assignment{name, sql, true})
	return self
}

func setAssignment(vals []assignment, val assignment) []assignment {
	for ind := range vals {
		if vals[ind].name == val.name {
			vals[ind] = val
			return vals
		}
	}
	return append(vals, val)
}

// Returns a copy of the order-bys.
func (self *Query) OrderBys() []string { return copyStrings(self.orderBys) }

// Replaces the order-bys, dropping duplicates.
func (self *Query) SetOrderBys(vals ...string) *Query {
	self.orderBys = uniqStrings(vals)
	return self
}

// Adds a raw ordering expression such as "created_at DESC" unless present.
func (self *Query) AddOrderBy(val string) *Query {
	self.orderBys = appendUniq(self.orderBys, val)
	return self
}

// Returns a copy of the group-bys.
func (self *Query) GroupBys() []string { return copyStrings(self.groupBys) }

// Replaces the group-bys, dropping duplicates.
func (self *Query) SetGroupBys(vals ...string) *Query {
	self.groupBys = uniqStrings(vals)
	return self
}

// Adds a raw grouping expression unless present.
func (self *Query) AddGroupBy(val string) *Query {
	self.groupBys = appendUniq(self.groupBys, val)
	return self
}

func (self *Query) Limit() (int, bool) { return self.limit, self.hasLimit }

// Sets the limit. Negative values are clamped to 0.
func (self *Query) SetLimit(val int) *Query {
	self.limit, self.hasLimit = max(val, 0), true
	return self
}

func (self *Query) ClearLimit() *Query {
	self.limit, self.hasLimit = 0, false
	return self
}

func (self *Query) Offset() (int, bool) { return self.offset, self.hasOffset }

// Sets the offset. Negative values are clamped to 0.
func (self *Query) SetOffset(val int) *Query {
	self.offset, self.hasOffset = max(val, 0), true
	return self
}

func (self *Query) ClearOffset() *Query {
	self.offset, self.hasOffset = 0, false
	return self
}

/*
Sets limit and offset for the given 1-based page. When `perPage <= 0`, the
current limit is used as the page size. Fails with `ErrMissingLimit` when
neither is available, and with `ErrInvalidInput` when `page < 1`. On failure,
the query is unchanged.
*/
func (self *Query) SetPage(page, perPage int) error {
	if page < 1 {
		return ErrInvalidInput.while(`setting page`).because(errf(`expected page >= 1, got %v`, page))
	}
	if perPage <= 0 {
		limit, ok := self.Limit()
		if !ok {
			return ErrMissingLimit.while(`setting page`)
		}
		perPage = limit
	}
	self.SetOffset((page - 1) * perPage)
	self.SetLimit(perPage)
	return nil
}

// True if booleans are bound as 0/1. Defaults to true.
func (self *Query) ConvertBoolToInt() bool { return !self.keepBools }

// Controls whether booleans are bound as 0/1 or as-is.
func (self *Query) SetConvertBoolToInt(val bool) *Query {
	self.keepBools = !val
	return self
}

/*
Returns the binds of the most recent `.Build`, including both generated binds
and binds declared via `.AddBind`. Before the first build, this is empty.
Returns a copy; mutating it doesn't affect the query.
*/
func (self *Query) Binds() Binds { return self.live.Clone() }

// Returns a copy of the binds declared via `.AddBind`/`.SetBinds`.
func (self *Query) DeclaredBinds() Binds { return self.binds.Clone() }

/*
Declares a bind used by raw fragments. The name should include the leading
colon, for example ":min_age". Declared binds are included into every
subsequent `.Build`.
*/
func (self *Query) AddBind(name string, val any) *Query {
	if self.binds == nil {
		self.binds = Binds{}
	}
	self.binds[name] = val
	return self
}

// Replaces declared binds with a copy of the input.
func (self *Query) SetBinds(vals Binds) *Query {
	self.binds = vals.Clone()
	return self
}

// Removes all declared binds.
func (self *Query) ClearBinds() *Query {
	self.binds = nil
	return self
}

// SQL produced by the most recent successful `.Build`, or "".
func (self *Query) SQL() string { return self.sql }

// Implement `fmt.Stringer`. Same as `.SQL`.
func (self *Query) String() string { return self.SQL() }
