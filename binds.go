package xpdo

import (
	"strconv"
)

/*
Mapping of named bind parameters to values, suitable for passing along with the
rendered SQL to a statement executor. Keys include the leading colon, exactly
as they appear in the SQL text:

	xpdo.Binds{`:min_age`: 18}

Generated names have the form ":_<id>_<tag>_<column>[_<index>]", where "<id>"
is the identity of the query or `Like` that produced them. Names never contain
anything outside of `[A-Za-z0-9_]` after the colon.
*/
type Binds map[string]any

// True if there are no binds.
func (self Binds) IsEmpty() bool { return self.Len() == 0 }

// Number of binds.
func (self Binds) Len() int { return len(self) }

/*
Returns the value for the given name. The name may be given with or without the
leading colon. Used by `dbx` when resolving named parameters found by the SQL
tokenizer, which reports them without the colon.
*/
func (self Binds) Got(key string) (any, bool) {
	val, ok := self[key]
	if ok {
		return val, true
	}
	if len(key) > 0 && key[0] != namedParamPrefix {
		val, ok = self[string(namedParamPrefix)+key]
	}
	return val, ok
}

// Returns a shallow copy. The copy of a nil map is an empty non-nil map.
func (self Binds) Clone() Binds {
	out := make(Binds, len(self))
	for key, val := range self {
		out[key] = val
	}
	return out
}

// Copies every entry of the input into the receiver, replacing existing keys.
func (self Binds) Merge(src Binds) {
	for key, val := range src {
		self[key] = val
	}
}

// Returns all names in sorted order. Useful for stable logs and tests.
func (self Binds) Keys() []string { return sortedKeys(self) }

func bindName(id, tag, col string) string {
	buf := make([]byte, 0, 3+len(id)+len(tag)+len(col))
	buf = append(buf, namedParamPrefix, '_')
	buf = append(buf, id...)
	buf = append(buf, '_')
	buf = append(buf, tag...)
	buf = append(buf, '_')
	buf = append(buf, safeIdent(col)...)
	return bytesToMutableString(buf)
}

func bindNameIndexed(id, tag, col string, index int) string {
	return bindName(id, tag, col) + `_` + strconv.Itoa(index)
}

// Returns `name`, or `name` with the smallest suffix "_2", "_3", ... that isn't
// bound in any of the given maps.
func uniqBindName(name string, taken ...Binds) string {
	out := name
	for ind := 2; bindTaken(out, taken); ind++ {
		out = name + `_` + strconv.Itoa(ind)
	}
	return out
}

func bindTaken(name string, taken []Binds) bool {
	for _, binds := range taken {
		_, ok := binds[name]
		if ok {
			return true
		}
	}
	return false
}
