package xpdo

import (
	"strconv"
	"strings"
)

const (
	tagUpdate     = `update_bind`
	tagDupeUpdate = `dupe_update_bind`
	tagWhere      = `where`
	tagWhereIn    = `where_in`
)

/*
Renders the query, replacing the SQL and binds observed via `.SQL` and
`.Binds`. Clauses are emitted in a fixed order:

	SELECT <fields> FROM <table>
	INSERT INTO <table> SET <assignments>
	UPDATE <table> SET <assignments>
	DELETE FROM <table>
	SHOW <table>
	<joins>                               (SELECT, UPDATE, DELETE)
	WHERE <cond> AND <cond> ...           (SELECT, UPDATE, DELETE)
	ON DUPLICATE KEY UPDATE <assignments> (INSERT)
	GROUP BY <expr>, ...                  (SELECT)
	ORDER BY <expr>, ...                  (SELECT)
	LIMIT <n> OFFSET <m>                  (SELECT, UPDATE, DELETE)

The result ends with ";". The resulting binds are the declared binds plus every
bind generated during this render, including binds of sub-queries. Binds from
previous renders never leak into the result.

Sub-queries are rendered as part of this call, which also updates their own
`.SQL` and `.Binds`. A query nested inside itself, directly or transitively,
fails with `ErrCyclicSubQuery`. On failure, the previous SQL and binds are left
untouched.
*/
func (self *Query) Build() (err error) {
	defer rec(&err)
	self.sql, self.live = self.render(nil)
	return
}

/*
Same as `.Build` followed by `.SQL` and `.Binds`. Convenient for passing the
result to a statement executor.
*/
func (self *Query) Reify() (string, Binds, error) {
	err := self.Build()
	if err != nil {
		return ``, nil, err
	}
	return self.SQL(), self.Binds(), nil
}

func (self *Query) render(chain []*Query) (string, Binds) {
	for _, prev := range chain {
		if prev == self {
			panic(ErrCyclicSubQuery.while(`building query ` + self.ID()))
		}
	}
	chain = append(chain, self)

	typ := self.typ
	if typ == `` {
		panic(ErrMissingType.while(`building query`))
	}
	if !typ.IsValid() {
		panic(ErrUnsupportedType.while(`building query`).because(errf(`unsupported query type %q`, typ)))
	}

	bui := makeBui(128)
	bui.binds = self.binds.Clone()

	switch typ {
	case TypeSelect:
		bui.str(`SELECT`)
		for ind, field := range self.Fields() {
			bui.sep(ind, `,`)
			bui.str(field)
		}
		bui.str(`FROM`)
		bui.str(self.table)

	case TypeInsert:
		bui.str(`INSERT INTO`)
		bui.str(self.table)
		self.renderAssignments(&bui, `SET`, tagUpdate, self.values)

	case TypeUpdate:
		bui.str(`UPDATE`)
		bui.str(self.table)
		self.renderAssignments(&bui, `SET`, tagUpdate, self.values)

	case TypeDelete:
		bui.str(`DELETE FROM`)
		bui.str(self.table)

	case TypeShow:
		bui.str(`SHOW`)
		bui.str(self.table)
		return finalizeSql(bui.text), bui.binds
	}

	if typ != TypeInsert {
		for _, join := range self.joins {
			join.render(&bui)
		}
		self.renderWheres(&bui, chain)
	}

	if typ == TypeInsert {
		self.renderAssignments(&bui, `ON DUPLICATE KEY UPDATE`, tagDupeUpdate, self.dupeValues)
	}

	if typ == TypeSelect {
		renderList(&bui, `GROUP BY`, self.groupBys)
		renderList(&bui, `ORDER BY`, self.orderBys)
	}

	if typ != TypeInsert {
		if self.hasLimit {
			bui.str(`LIMIT`)
			bui.str(strconv.Itoa(self.limit))
		}
		if self.hasOffset {
			bui.str(`OFFSET`)
			bui.str(strconv.Itoa(self.offset))
		}
	}

	return finalizeSql(bui.text), bui.binds
}

func (self *Query) renderAssignments(bui *bui, prefix, tag string, vals []assignment) {
	if len(vals) == 0 {
		return
	}

	bui.str(prefix)
	for ind, val := range vals {
		bui.sep(ind, `,`)
		if val.raw {
			bui.str(val.name)
			bui.str(`=`)
			bui.str(val.val.(string))
			continue
		}
		bui.cond(val.name, `=`, bindName(self.ID(), tag, val.name), self.norm(val.val))
	}
}

func (self *Query) renderWheres(out *bui, chain []*Query) {
	first := true

	for _, entry := range self.wheres {
		var pred bui
		self.renderWhere(&pred, out.binds, entry.key, entry.val, chain)
		if len(pred.text) == 0 {
			continue
		}

		if first {
			out.str(`WHERE`)
			first = false
		} else {
			out.str(`AND`)
		}
		out.str(pred.String())
		out.mergeBinds(pred.binds)
	}
}

/*
Renders one predicate into `bui`. Generated bind names are made unique against
both `bui` and `taken`, so predicates on the same column, or on columns that
sanitize to the same identifier, never share a bind.
*/
func (self *Query) renderWhere(bui *bui, taken Binds, key string, val WhereValue, chain []*Query) {
	switch val := val.(type) {
	case Raw:
		bui.str(string(val))

	case Sub:
		sub := val[0]
		if sub == nil {
			panic(ErrInvalidSubQuery.while(`building sub-query ` + strconv.Quote(key)).because(errf(`sub-query is nil`)))
		}
		if sub.typ != TypeSelect {
			panic(ErrInvalidSubQuery.while(`building sub-query ` + strconv.Quote(key)).because(errf(`expected %v, got %q`, TypeSelect, sub.typ)))
		}

		sql, binds := sub.render(chain)
		sub.sql, sub.live = sql, binds

		bui.str(strings.ReplaceAll(key, subQueryMarker, strings.TrimSuffix(sql, `;`)))
		bui.mergeBinds(binds)

	case In:
		col := strings.TrimSpace(key)
		bui.str(col)
		bui.str(`IN`)
		bui.str(`(`)
		if len(val) == 0 {
			bui.str(`NULL`)
		}
		for ind, elem := range val {
			bui.sep(ind, `,`)
			name := uniqBindName(bindNameIndexed(self.ID(), tagWhereIn, col, ind+1), taken, bui.binds)
			bui.bind(name, self.norm(elem))
		}
		bui.str(`)`)

	case Val:
		col, op := splitOperator(key)
		name := uniqBindName(bindName(self.ID(), tagWhere, col), taken, bui.binds)
		bui.cond(col, op, name, self.norm(val[0]))

	case *Like:
		if val != nil {
			val.render(bui, self.ID())
		}

	default:
		panic(ErrInvalidInput.while(`building where-condition ` + strconv.Quote(key)).because(errf(`unexpected value %T`, val)))
	}
}

// Coerces booleans into 0/1 unless disabled via `.SetConvertBoolToInt`.
func (self *Query) norm(val any) any {
	if self.keepBools {
		return val
	}
	impl, ok := val.(bool)
	if ok {
		return boolToInt(impl)
	}
	return val
}

/*
Splits a where key such as "username !=" into the column and the operator,
using the last space. Without a space or with nothing after it, the operator is
"=".
*/
func splitOperator(key string) (string, string) {
	ind := strings.LastIndexByte(key, ' ')
	if ind < 0 {
		return key, defaultOperator
	}

	op := strings.TrimSpace(key[ind+1:])
	if op == `` {
		return strings.TrimSpace(key), defaultOperator
	}
	return strings.TrimSpace(key[:ind]), op
}

func renderList(bui *bui, prefix string, vals []string) {
	if len(vals) == 0 {
		return
	}
	bui.str(prefix)
	for ind, val := range vals {
		bui.sep(ind, `,`)
		bui.str(val)
	}
}

func finalizeSql(text []byte) string {
	return strings.TrimSpace(string(text)) + `;`
}
