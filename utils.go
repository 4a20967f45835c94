package xpdo

import (
	"reflect"
	"sort"
	"strings"
	"unsafe"

	"github.com/google/uuid"
)

const (
	namedParamPrefix = ':'
	subQueryMarker   = `%SQL%`
	rawWherePrefix   = `_raw_sql_`
	likeWherePrefix  = `_like_`
	defaultOperator  = `=`
	defaultJoinKind  = `JOIN`
	defaultField     = `*`
)

var (
	typeBytes = reflect.TypeOf((*[]byte)(nil)).Elem()

	charsetDigitDec   = new(charset).addStr(`0123456789`)
	charsetIdentStart = new(charset).addStr(`ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_`)
	charsetIdent      = new(charset).addSet(charsetIdentStart).addSet(charsetDigitDec)
	charsetSpace      = new(charset).addStr(" \t\v")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)
	charsetDelimStart = new(charset).addSet(charsetWhitespace).addStr(`([{.`)
	charsetDelimEnd   = new(charset).addSet(charsetWhitespace).addStr(`,;}])`)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func appendMaybeSpaced(text []byte, suffix string) []byte {
	if !hasDelimSuffix(bytesToMutableString(text)) && !hasDelimPrefix(suffix) {
		text = append(text, ` `...)
	}
	text = append(text, suffix...)
	return text
}

func hasDelimPrefix(text string) bool {
	return len(text) == 0 || charsetDelimEnd.has(text[0])
}

func hasDelimSuffix(text string) bool {
	return len(text) == 0 || charsetDelimStart.has(text[len(text)-1])
}

/*
Converts an arbitrary column expression into something usable inside a bind
parameter name. Every byte outside of `[A-Za-z0-9_]` becomes an underscore, so
"users.user_id" becomes "users_user_id".
*/
func safeIdent(src string) string {
	for ind := 0; ind < len(src); ind++ {
		if !charsetIdent.has(src[ind]) {
			return sanitizeIdent(src)
		}
	}
	return src
}

func sanitizeIdent(src string) string {
	buf := []byte(src)
	for ind, char := range buf {
		if !charsetIdent.has(char) {
			buf[ind] = '_'
		}
	}
	return bytesToMutableString(buf)
}

// Random token usable inside a bind parameter name.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), `-`, ``)
}

func appendUniq(vals []string, val string) []string {
	for _, prev := range vals {
		if prev == val {
			return vals
		}
	}
	return append(vals, val)
}

func uniqStrings(vals []string) []string {
	var out []string
	for _, val := range vals {
		out = appendUniq(out, val)
	}
	return out
}

func sortedKeys[V any](src map[string]V) []string {
	out := make([]string, 0, len(src))
	for key := range src {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func isSeq(val any) bool {
	rtype := reflect.TypeOf(val)
	if rtype == nil || rtype == typeBytes {
		return false
	}
	kind := rtype.Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func seqToSlice(val any) []any {
	rval := reflect.ValueOf(val)
	out := make([]any, rval.Len())
	for ind := range out {
		out[ind] = rval.Index(ind).Interface()
	}
	return out
}

func boolToInt(val bool) int {
	if val {
		return 1
	}
	return 0
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}
