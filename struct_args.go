package xpdo

import (
	"reflect"

	"github.com/mitranim/refut"
)

/*
Scans a struct, accumulating fields tagged with `db` into a map. The input must
be a struct or a struct pointer. A nil pointer is fine and produces an empty
non-nil map. Panics on other inputs. Treats embedded structs as part of
enclosing structs. Fields tagged `db:"-"` or without a `db` tag are skipped.
*/
func StructMap(input any) map[string]any {
	dict := map[string]any{}
	traverseStructDbFields(input, func(name string, value any) {
		dict[name] = value
	})
	return dict
}

/*
Adds an assignment for every `db`-tagged field, in field order. Same input
rules as `StructMap`. Useful for INSERT and UPDATE:

	type User struct {
		Username string `db:"username"`
		Active   bool   `db:"active"`
	}

	xpdo.Insert(`users`).AddStructValues(User{`Tod`, true})

	INSERT INTO users SET username = :_<id>_update_bind_username, active = :_<id>_update_bind_active;
*/
func (self *Query) AddStructValues(input any) *Query {
	traverseStructDbFields(input, func(name string, value any) {
		self.AddValue(name, value)
	})
	return self
}

/*
Adds a where-condition for every `db`-tagged field, in field order, classified
the same way as `.AddWhere`. Same input rules as `StructMap`.
*/
func (self *Query) AddStructWheres(input any) *Query {
	traverseStructDbFields(input, func(name string, value any) {
		self.AddWhere(name, value)
	})
	return self
}

/*
Takes a struct and returns the names of its `db`-tagged fields, suitable for
`Query.SetFields`. Also accepts a struct pointer, a struct slice, or a struct
slice pointer. Nil slices and pointers are fine, as long as they carry a struct
type. Any other input causes a panic.

	q := xpdo.Select(`users`).SetFields(xpdo.Cols(User{})...)
*/
func Cols(dest any) []string {
	rtype := refut.RtypeDeref(reflect.TypeOf(dest))
	if rtype != nil && rtype.Kind() == reflect.Slice {
		rtype = refut.RtypeDeref(rtype.Elem())
	}

	if rtype == nil || rtype.Kind() != reflect.Struct {
		panic(ErrInvalidInput.while(`generating struct columns for select clause`).because(errf(`expected struct, got %v`, rtype)))
	}

	var out []string
	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, _ []int) error {
		colName := sfieldColumnName(sfield)
		if colName != `` {
			out = append(out, colName)
		}
		return nil
	})
	try(err)
	return out
}

func sfieldColumnName(sfield reflect.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(`db`))
}

func traverseStructDbFields(input any, fun func(string, any)) {
	rval := reflect.ValueOf(input)
	if !rval.IsValid() {
		panic(ErrInvalidInput.while(`traversing struct for DB fields`).because(errf(`expected struct, got nil`)))
	}

	rtype := refut.RtypeDeref(rval.Type())
	if rtype.Kind() != reflect.Struct {
		panic(ErrInvalidInput.while(`traversing struct for DB fields`).because(errf(`expected struct, got %q`, rtype)))
	}

	if refut.IsRvalNil(rval) {
		return
	}

	err := refut.TraverseStructRval(rval, func(rval reflect.Value, sfield reflect.StructField, _ []int) error {
		colName := sfieldColumnName(sfield)
		if colName == `` {
			return nil
		}
		fun(colName, rval.Interface())
		return nil
	})
	try(err)
}
