package xpdo

import (
	"errors"
	"reflect"
	"testing"
)

type (
	T  = testing.T
	TB = testing.TB
)

func eq(t TB, expected interface{}, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected:\n%#v\nactual:\n%#v", expected, actual)
	}
}

func noErr(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func errIs(t TB, expected error, actual error) {
	t.Helper()
	if !errors.Is(actual, expected) {
		t.Fatalf("expected error matching:\n%v\nactual:\n%v", expected, actual)
	}
}

func build(t TB, query *Query) *Query {
	t.Helper()
	noErr(t, query.Build())
	return query
}

// Shortcut for generated bind names in expected outputs.
func bn(query interface{ ID() string }, suffix string) string {
	return `:_` + query.ID() + `_` + suffix
}
