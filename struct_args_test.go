package xpdo

import (
	"testing"
)

// nolint:govet
type Embed struct {
	Id        string `db:"embed_id"`
	Name      string `db:"embed_name"`
	private   string `db:"embed_private"`
	Untagged0 string ``
	Untagged1 string `db:"-"`
}

type Outer struct {
	Embed
	Id     string `db:"outer_id"`
	Active bool   `db:"active"`
	Tags   []int  `db:"tags"`
}

var testOuter = Outer{
	Id:     `outer id`,
	Active: true,
	Tags:   []int{1, 2},
	Embed: Embed{
		Id:        `embed id`,
		Name:      `embed name`,
		private:   `private`,
		Untagged0: `untagged 0`,
		Untagged1: `untagged 1`,
	},
}

func TestStructMap(t *testing.T) {
	eq(t,
		map[string]any{
			`embed_id`:   `embed id`,
			`embed_name`: `embed name`,
			`outer_id`:   `outer id`,
			`active`:     true,
			`tags`:       []int{1, 2},
		},
		StructMap(testOuter),
	)

	eq(t, map[string]any{}, StructMap((*Outer)(nil)))
	eq(t, len(StructMap(testOuter)), len(StructMap(&testOuter)))
}

func TestStructMap_invalid(t *testing.T) {
	test := func(input any) {
		t.Helper()
		defer func() {
			err, _ := recover().(error)
			errIs(t, ErrInvalidInput, err)
		}()
		StructMap(input)
	}

	test(nil)
	test(10)
	test(`str`)
	test([]Outer{})
}

func TestQuery_AddStructValues(t *testing.T) {
	q := Insert(`users`).AddStructValues(testOuter)
	build(t, q)

	eq(t,
		`INSERT INTO users SET embed_id = `+bn(q, `update_bind_embed_id`)+
			`, embed_name = `+bn(q, `update_bind_embed_name`)+
			`, outer_id = `+bn(q, `update_bind_outer_id`)+
			`, active = `+bn(q, `update_bind_active`)+
			`, tags = `+bn(q, `update_bind_tags`)+`;`,
		q.SQL(),
	)
	eq(t, 1, q.Binds()[bn(q, `update_bind_active`)])
}

func TestQuery_AddStructWheres(t *testing.T) {
	type filter struct {
		UserID []int  `db:"user_id"`
		Name   string `db:"users.name"`
	}

	q := Select(`users`).AddStructWheres(&filter{UserID: []int{1, 2}, Name: `Tom`})
	build(t, q)

	eq(t,
		`SELECT * FROM users WHERE user_id IN (`+bn(q, `where_in_user_id_1`)+`, `+bn(q, `where_in_user_id_2`)+
			`) AND users.name = `+bn(q, `where_users_name`)+`;`,
		q.SQL(),
	)
	eq(t, Binds{
		bn(q, `where_in_user_id_1`): 1,
		bn(q, `where_in_user_id_2`): 2,
		bn(q, `where_users_name`):   `Tom`,
	}, q.Binds())
}

func TestCols(t *testing.T) {
	exp := []string{`embed_id`, `embed_name`, `outer_id`, `active`, `tags`}

	eq(t, exp, Cols(Outer{}))
	eq(t, exp, Cols((*Outer)(nil)))
	eq(t, exp, Cols([]Outer(nil)))
	eq(t, exp, Cols(&[]*Outer{}))

	q := Select(`outers`).SetFields(Cols(Outer{})...)
	eq(t, `SELECT embed_id, embed_name, outer_id, active, tags FROM outers;`, build(t, q).SQL())
}

func TestCols_invalid(t *testing.T) {
	defer func() {
		err, _ := recover().(error)
		errIs(t, ErrInvalidInput, err)
	}()
	Cols(10)
}
