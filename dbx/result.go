package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/mitranim/refut"
	"github.com/tomwright/xpdo"
)

/*
Controls how `DB.Query` returns rows of SELECT and SHOW statements.

	ReturnAssoc: rows are fully read into `[]Row` and the statement is closed.
	ReturnStmt:  the open `*Rows` is returned; the caller must close it.

Struct-shaped results are obtained via `DB.Select` regardless of mode. Verbs
other than SELECT and SHOW ignore the mode.
*/
type ReturnMode string

const (
	ReturnAssoc ReturnMode = `assoc`
	ReturnStmt  ReturnMode = `stmt`
)

// True for known modes. The empty mode is valid and means `ReturnAssoc`.
func (self ReturnMode) IsValid() bool {
	switch self {
	case ``, ReturnAssoc, ReturnStmt:
		return true
	default:
		return false
	}
}

func (self ReturnMode) orDefault() ReturnMode {
	if self == `` {
		return ReturnAssoc
	}
	return self
}

// One result row keyed by column name. Text columns are strings, not bytes.
type Row map[string]any

/*
Outcome of `DB.Query`. `.Value` holds the verb-specific result:

	SELECT, SHOW:   `[]Row` when at least one row was read, else the default response
	INSERT:         last insert id (int64) when a row was affected and the driver
	                reports one, else the default response
	UPDATE, DELETE: affected row count (int64)
	anything else:  the default response

In `ReturnStmt` mode, SELECT and SHOW leave `.Rows` and `.Value` empty and set
`.Stmt` instead.
*/
type Result struct {
	Verb     string
	Rows     []Row
	Stmt     *Rows
	Affected int64
	InsertID int64
	Value    any
}

/*
Open result set of a prepared statement. Closing it also closes the
statement.
*/
type Rows struct {
	*sql.Rows
	stmt *sql.Stmt
}

// Closes the rows, then the underlying statement.
func (self *Rows) Close() error {
	return errors.Join(self.Rows.Close(), self.stmt.Close())
}

func scanRows(rows *sql.Rows) (_ []Row, err error) {
	defer func() { err = errors.Join(err, rows.Close()) }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for ind := range vals {
			ptrs[ind] = &vals[ind]
		}

		err = rows.Scan(ptrs...)
		if err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for ind, col := range cols {
			row[col] = normScanned(vals[ind])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func normScanned(val any) any {
	bytes, ok := val.([]byte)
	if ok {
		return string(bytes)
	}
	return val
}

/*
Reads every row into the slice pointed to by `dest`, matching columns to
`db`-tagged struct fields. The slice element may be a struct or a struct
pointer. Columns without a matching field are discarded.
*/
func scanStructs(rows *sql.Rows, dest any) (err error) {
	defer func() { err = errors.Join(err, rows.Close()) }()

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.IsNil() || slice.Elem().Kind() != reflect.Slice {
		return invalidDest(dest)
	}
	slice = slice.Elem()

	elemType := slice.Type().Elem()
	structType := refut.RtypeDeref(elemType)
	if structType.Kind() != reflect.Struct {
		return invalidDest(dest)
	}

	paths, err := structColumnPaths(structType)
	if err != nil {
		return err
	}

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		elem := reflect.New(structType).Elem()
		ptrs := make([]any, len(cols))
		for ind, col := range cols {
			path, ok := paths[col]
			if ok {
				ptrs[ind] = elem.FieldByIndex(path).Addr().Interface()
			} else {
				ptrs[ind] = new(any)
			}
		}

		err = rows.Scan(ptrs...)
		if err != nil {
			return err
		}

		if elemType.Kind() == reflect.Ptr {
			slice.Set(reflect.Append(slice, elem.Addr()))
		} else {
			slice.Set(reflect.Append(slice, elem))
		}
	}
	return rows.Err()
}

func structColumnPaths(rtype reflect.Type) (map[string][]int, error) {
	out := map[string][]int{}
	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, path []int) error {
		colName := refut.TagIdent(sfield.Tag.Get(`db`))
		if colName != `` {
			out[colName] = append([]int(nil), path...)
		}
		return nil
	})
	return out, err
}

func invalidDest(dest any) error {
	return xpdo.Err{
		Code:  xpdo.ErrCodeInvalidInput,
		While: `scanning rows into structs`,
		Cause: fmt.Errorf(`expected pointer to slice of structs, got %T`, dest),
	}
}
