/*
Package dbx executes SQL with named bind parameters, such as the output of
`xpdo.Query`, through "database/sql". Statements are prepared, executed, and
their results are shaped by the leading verb of the SQL:

	db, err := dbx.Open(conf)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Run(ctx, xpdo.Select(`users`).AddWhere(`active`, true))
	if err != nil {
		return err
	}
	rows, _ := res.Value.([]dbx.Row)

Failed preparation is reported as `*PrepareError`. Every statement is logged
through `log/slog`: at debug level normally, at warn level when slower than the
configured threshold, at error level on failure.
*/
package dbx

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tomwright/xpdo"
	"golang.org/x/sync/errgroup"
)

// Configures a `DB`.
type Option func(*DB)

// Sets the logger. The default is `slog.Default()`.
func WithLogger(val *slog.Logger) Option {
	return func(self *DB) {
		if val != nil {
			self.log = val
		}
	}
}

// Sets how SELECT and SHOW results are returned. See `ReturnMode`.
func WithReturnMode(val ReturnMode) Option {
	return func(self *DB) { self.mode = val.orDefault() }
}

// Sets the value returned in `Result.Value` when a statement has no natural
// result. The default is nil.
func WithDefaultResponse(val any) Option {
	return func(self *DB) { self.def = val }
}

// Statements slower than this are logged as warnings. Zero disables this.
func WithSlowQuery(val time.Duration) Option {
	return func(self *DB) { self.slow = val }
}

// Overrides the placeholder syntax derived from the driver name.
func WithPlaceholder(val Placeholder) Option {
	return func(self *DB) { self.style = val }
}

/*
Statement executor over a `*sql.DB`. Safe for concurrent use, except that the
most recent statement reported by `.LastSQL` is whichever finished recording
last.
*/
type DB struct {
	db     *sql.DB
	driver string
	dsn    string
	style  Placeholder
	mode   ReturnMode
	def    any
	log    *slog.Logger
	slow   time.Duration

	mu   sync.Mutex
	last string
}

/*
Opens a connection pool described by the config. The config's return mode and
slow-query threshold are applied before the options.
*/
func Open(conf Config, opts ...Option) (*DB, error) {
	err := conf.Validate()
	if err != nil {
		return nil, err
	}

	dsn, err := conf.DataSource()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(conf.Driver, dsn)
	if err != nil {
		return nil, configError(`opening `+conf.Driver+` connection`, err)
	}
	if conf.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.MaxOpenConns)
	}

	base := []Option{WithReturnMode(conf.ReturnMode), WithSlowQuery(conf.SlowQuery)}
	out := OpenDB(conf.Driver, db, append(base, opts...)...)
	out.dsn = dsn
	return out, nil
}

// Wraps an existing pool. The driver name selects the placeholder syntax.
func OpenDB(driver string, db *sql.DB, opts ...Option) *DB {
	out := &DB{
		db:     db,
		driver: driver,
		style:  PlaceholderFor(driver),
		mode:   ReturnAssoc,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// Underlying pool.
func (self *DB) DB() *sql.DB { return self.db }

// Driver name given to `Open` or `OpenDB`.
func (self *DB) Driver() string { return self.driver }

// Host the pool connects to, when known from a MySQL DSN. Otherwise "".
func (self *DB) Host() string { return dsnHost(self.driver, self.dsn) }

// Closes the pool.
func (self *DB) Close() error { return self.db.Close() }

func (self *DB) SetReturnMode(val ReturnMode) *DB {
	self.mode = val.orDefault()
	return self
}

func (self *DB) SetDefaultResponse(val any) *DB {
	self.def = val
	return self
}

// Most recent SQL given to `.Query`, trimmed, before param conversion.
func (self *DB) LastSQL() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.last
}

func (self *DB) setLast(val string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.last = val
}

/*
Prepares and executes the SQL with the given named binds. See `Result` for how
the outcome depends on the verb. Preparation failures are returned as
`*PrepareError`; execution failures match `xpdo.ErrExec`.
*/
func (self *DB) Query(ctx context.Context, text string, binds xpdo.Binds) (Result, error) {
	return self.query(ctx, text, binds, self.mode)
}

// Same as `.Query` but returns only the first row, or nil.
func (self *DB) QueryRow(ctx context.Context, text string, binds xpdo.Binds) (Row, error) {
	res, err := self.query(ctx, text, binds, ReturnAssoc)
	if err != nil || len(res.Rows) == 0 {
		return nil, err
	}
	return res.Rows[0], nil
}

// Builds the query and executes the result via `.Query`.
func (self *DB) Run(ctx context.Context, query *xpdo.Query) (Result, error) {
	text, binds, err := query.Reify()
	if err != nil {
		return Result{}, err
	}
	return self.Query(ctx, text, binds)
}

/*
Builds every query, then executes them concurrently, returning results in the
same order. Building happens on the calling goroutine, since queries aren't
safe for concurrent use. The first failure cancels the remaining statements.
*/
func (self *DB) RunAll(ctx context.Context, queries ...*xpdo.Query) ([]Result, error) {
	type stmt struct {
		text  string
		binds xpdo.Binds
	}

	stmts := make([]stmt, len(queries))
	for ind, query := range queries {
		text, binds, err := query.Reify()
		if err != nil {
			return nil, err
		}
		stmts[ind] = stmt{text, binds}
	}

	out := make([]Result, len(stmts))
	group, ctx := errgroup.WithContext(ctx)
	for ind, val := range stmts {
		group.Go(func() error {
			res, err := self.query(ctx, val.text, val.binds, ReturnAssoc)
			out[ind] = res
			return err
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}

/*
Executes a SELECT-like statement and appends every row to the slice pointed to
by `dest`, matching columns to `db`-tagged struct fields.
*/
func (self *DB) Select(ctx context.Context, dest any, text string, binds xpdo.Binds) error {
	text = strings.TrimSpace(text)
	self.setLast(text)
	verb := xpdo.Verb(text)

	pos, args, err := Positional(text, binds, self.style)
	if err != nil {
		return err
	}

	start := time.Now()
	err = self.selectStructs(ctx, dest, verb, text, pos, args)
	self.logQuery(ctx, verb, text, len(args), time.Since(start), err)
	return err
}

func (self *DB) selectStructs(ctx context.Context, dest any, verb, text, pos string, args []any) error {
	stmt, err := self.db.PrepareContext(ctx, pos)
	if err != nil {
		return newPrepareError(text, err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return execError(verb, err)
	}
	return scanStructs(rows, dest)
}

func (self *DB) query(ctx context.Context, text string, binds xpdo.Binds, mode ReturnMode) (Result, error) {
	text = strings.TrimSpace(text)
	self.setLast(text)
	verb := xpdo.Verb(text)

	pos, args, err := Positional(text, binds, self.style)
	if err != nil {
		return Result{Verb: verb}, err
	}

	start := time.Now()
	res, err := self.exec(ctx, verb, text, pos, args, mode)
	self.logQuery(ctx, verb, text, len(args), time.Since(start), err)
	return res, err
}

func (self *DB) exec(ctx context.Context, verb, text, pos string, args []any, mode ReturnMode) (Result, error) {
	res := Result{Verb: verb}

	stmt, err := self.db.PrepareContext(ctx, pos)
	if err != nil {
		return res, newPrepareError(text, err)
	}

	switch xpdo.Type(verb) {
	case xpdo.TypeSelect, xpdo.TypeShow:
		rows, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			stmt.Close()
			return res, execError(verb, err)
		}

		if mode == ReturnStmt {
			res.Stmt = &Rows{rows, stmt}
			return res, nil
		}
		defer stmt.Close()

		res.Rows, err = scanRows(rows)
		if err != nil {
			return res, execError(verb, err)
		}

		res.Value = self.def
		if len(res.Rows) > 0 {
			res.Value = res.Rows
		}
		return res, nil

	default:
		defer stmt.Close()

		sqlRes, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return res, execError(verb, err)
		}

		res.Affected, err = sqlRes.RowsAffected()
		if err != nil {
			return res, execError(verb, err)
		}

		switch xpdo.Type(verb) {
		case xpdo.TypeInsert:
			res.Value = self.def
			if res.Affected > 0 {
				id, err := sqlRes.LastInsertId()
				if err != nil {
					self.log.DebugContext(ctx, `insert id unavailable`, `error`, err)
					break
				}
				res.InsertID, res.Value = id, id
			}
		case xpdo.TypeUpdate, xpdo.TypeDelete:
			res.Value = res.Affected
		default:
			res.Value = self.def
		}
		return res, nil
	}
}

func (self *DB) logQuery(ctx context.Context, verb, text string, argCount int, dur time.Duration, err error) {
	attrs := []any{`verb`, verb, `sql`, text, `args`, argCount, `duration`, dur}

	if err != nil {
		self.log.ErrorContext(ctx, `query failed`, append(attrs, `error`, err)...)
		return
	}
	if self.slow > 0 && dur >= self.slow {
		self.log.WarnContext(ctx, `slow query detected`, attrs...)
		return
	}
	self.log.DebugContext(ctx, `query executed`, attrs...)
}
