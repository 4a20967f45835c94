package xpdo

import (
	"testing"
)

func TestBinds(t *testing.T) {
	var zero Binds
	eq(t, true, zero.IsEmpty())
	eq(t, Binds{}, zero.Clone())

	binds := Binds{`:one`: 10, `two`: 20}
	eq(t, false, binds.IsEmpty())
	eq(t, 2, binds.Len())
	eq(t, []string{`:one`, `two`}, binds.Keys())

	test := func(key string, exp any, expOk bool) {
		t.Helper()
		val, ok := binds.Got(key)
		eq(t, exp, val)
		eq(t, expOk, ok)
	}

	test(`:one`, 10, true)
	test(`one`, 10, true)
	test(`two`, 20, true)
	test(`:two`, nil, false)
	test(`three`, nil, false)
	test(``, nil, false)

	clone := binds.Clone()
	clone[`:one`] = 30
	eq(t, 10, binds[`:one`])

	clone.Merge(Binds{`:three`: 40})
	eq(t, Binds{`:one`: 30, `two`: 20, `:three`: 40}, clone)
}

func Test_bindName(t *testing.T) {
	eq(t, `:_abc_where_users_user_id`, bindName(`abc`, `where`, `users.user_id`))
	eq(t, `:_abc_where_COUNT___`, bindName(`abc`, `where`, `COUNT(*)`))
	eq(t, `:_abc_where_in_user_id_3`, bindNameIndexed(`abc`, `where_in`, `user_id`, 3))
}

func Test_safeIdent(t *testing.T) {
	eq(t, `user_id`, safeIdent(`user_id`))
	eq(t, `users_user_id`, safeIdent(`users.user_id`))
	eq(t, `a_b_c`, safeIdent("a`b c"))
	eq(t, ``, safeIdent(``))
}

func Test_uniqBindName(t *testing.T) {
	eq(t, `:a`, uniqBindName(`:a`))
	eq(t, `:a`, uniqBindName(`:a`, nil, Binds{`:b`: 1}))
	eq(t, `:a_2`, uniqBindName(`:a`, Binds{`:a`: 1}))
	eq(t, `:a_3`, uniqBindName(`:a`, Binds{`:a`: 1}, Binds{`:a_2`: 2}))
}
