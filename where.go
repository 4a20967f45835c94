package xpdo

/*
Value of a where-condition. Sealed sum type: the only implementations are
`Val`, `In`, `Sub`, `Raw` and `*Like`. `Query.AddWhere` classifies arbitrary
inputs into one of these; `Query.Where` accepts them directly.
*/
type WhereValue interface{ isWhereValue() }

/*
Scalar condition value. The key may carry a trailing operator separated by the
last space:

	q.Where(`username !=`, xpdo.Val{`Frank`})

	username != :_<id>_where_username

Without an operator, "=" is used.
*/
type Val [1]any

func (Val) isWhereValue() {}

/*
Sequence condition value, rendered as "<col> IN (...)" with one bind per
element. An empty sequence renders "<col> IN (NULL)", which matches nothing.
*/
type In []any

func (In) isWhereValue() {}

/*
Sub-query condition value. The key must contain the "%SQL%" marker, which is
replaced with the rendered sub-query:

	q.Where(`user_id IN (%SQL%)`, xpdo.Sub{deleted})

The sub-query must be a SELECT. Its binds are merged into the parent's binds;
their names never collide because each query has its own identity.
*/
type Sub [1]*Query

func (Sub) isWhereValue() {}

/*
Verbatim SQL condition. The key is ignored when rendering. Any named params in
the text must be provided via `Query.AddBind`. Not escaped in any way.
*/
type Raw string

func (Raw) isWhereValue() {}

/*
Classifies an arbitrary value: `WhereValue` implementations are used as-is,
`*Query` becomes `Sub`, slices and arrays other than `[]byte` become `In`,
everything else becomes `Val`.
*/
func whereValueOf(val any) WhereValue {
	switch val := val.(type) {
	case WhereValue:
		return val
	case *Query:
		return Sub{val}
	}
	if isSeq(val) {
		return In(seqToSlice(val))
	}
	return Val{val}
}
