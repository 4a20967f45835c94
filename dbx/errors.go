package dbx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/tomwright/xpdo"
)

/*
Returned when the database refuses to prepare a statement. Carries the SQL as
given to `DB.Query` and the driver's error detail. For MySQL, `.Code` is the
server error number such as "1064"; for Postgres it's the SQLSTATE such as
"42601". For other drivers, `.Code` is empty and `.Detail` is the driver's
message.

Matches `xpdo.ErrPrepare` via `errors.Is`:

	var prepErr *dbx.PrepareError
	if errors.As(err, &prepErr) {
		log.Println(prepErr.Code, prepErr.Detail)
	}
*/
type PrepareError struct {
	SQL    string
	Code   string
	Detail string
	Cause  error
}

func newPrepareError(text string, cause error) *PrepareError {
	out := &PrepareError{SQL: text, Detail: cause.Error(), Cause: cause}

	var myErr *mysql.MySQLError
	var pgErr *pq.Error

	switch {
	case errors.As(cause, &myErr):
		out.Code = strconv.Itoa(int(myErr.Number))
		out.Detail = myErr.Message
	case errors.As(cause, &pgErr):
		out.Code = string(pgErr.Code)
		out.Detail = pgErr.Message
	}
	return out
}

// Implement `error`.
func (self *PrepareError) Error() string {
	msg := `[xpdo] ` + string(xpdo.ErrCodePrepare)
	if self.Code != `` {
		msg += fmt.Sprintf(` (%v)`, self.Code)
	}
	return msg + `: ` + self.Detail
}

// Implement a hidden interface in "errors".
func (self *PrepareError) Is(other error) bool { return xpdo.ErrPrepare.Is(other) }

// Implement a hidden interface in "errors".
func (self *PrepareError) Unwrap() error { return self.Cause }

func execError(verb string, cause error) error {
	return xpdo.Err{Code: xpdo.ErrCodeExec, While: `executing ` + verbOrUnknown(verb), Cause: cause}
}

func verbOrUnknown(verb string) string {
	if verb == `` {
		return `statement`
	}
	return verb
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
