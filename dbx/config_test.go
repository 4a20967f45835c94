package dbx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomwright/xpdo"
)

const testConfigYAML = `
driver: mysql
mysql:
  user: app
  password: secret
  addr: 127.0.0.1:3306
  dbname: shop
return_mode: stmt
max_open_conns: 4
slow_query: 200ms
`

func TestParseConfig(t *testing.T) {
	conf, err := ParseConfig([]byte(testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, `mysql`, conf.Driver)
	assert.Equal(t, ReturnStmt, conf.ReturnMode)
	assert.Equal(t, 4, conf.MaxOpenConns)
	assert.Equal(t, 200*time.Millisecond, conf.SlowQuery)
	require.NotNil(t, conf.MySQL)
	assert.Equal(t, `app`, conf.MySQL.User)

	dsn, err := conf.DataSource()
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, `app`, parsed.User)
	assert.Equal(t, `secret`, parsed.Passwd)
	assert.Equal(t, `tcp`, parsed.Net)
	assert.Equal(t, `127.0.0.1:3306`, parsed.Addr)
	assert.Equal(t, `shop`, parsed.DBName)
}

func TestParseConfig_dsn(t *testing.T) {
	conf, err := ParseConfig([]byte("driver: sqlite\ndsn: \":memory:\"\n"))
	require.NoError(t, err)

	dsn, err := conf.DataSource()
	require.NoError(t, err)
	assert.Equal(t, `:memory:`, dsn)
	assert.Equal(t, ReturnMode(``), conf.ReturnMode)
}

func TestParseConfig_invalid(t *testing.T) {
	test := func(src string) {
		t.Helper()
		_, err := ParseConfig([]byte(src))
		assert.ErrorIs(t, err, xpdo.ErrConfig, src)
	}

	test(`driver: [`)
	test(`dsn: ":memory:"`)
	test("driver: sqlite\n")
	test("driver: sqlite\ndsn: x\nreturn_mode: obj\n")
	test("driver: sqlite\ndsn: x\nmax_open_conns: -1\n")
	test("driver: mysql\ndsn: not a dsn\n")
	test("driver: sqlite\nmysql:\n  user: app\n")
}

func TestMySQLConfig_FormatDSN(t *testing.T) {
	dsn := MySQLConfig{
		User:   `app`,
		Addr:   `db:3306`,
		DBName: `shop`,
		Params: map[string]string{`time_zone`: `'+00:00'`},
	}.FormatDSN()

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, `tcp`, parsed.Net)
	assert.Equal(t, `db:3306`, parsed.Addr)
	assert.Equal(t, `'+00:00'`, parsed.Params[`time_zone`])
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), `db.yaml`)
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, `mysql`, conf.Driver)

	_, err = LoadConfig(filepath.Join(t.TempDir(), `missing.yaml`))
	assert.ErrorIs(t, err, xpdo.ErrConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func Test_dsnHost(t *testing.T) {
	assert.Equal(t, `db.example.com`, dsnHost(`mysql`, `app@tcp(db.example.com:3306)/shop`))
	assert.Equal(t, `/tmp/mysql.sock`, dsnHost(`mysql`, `app@unix(/tmp/mysql.sock)/shop`))
	assert.Equal(t, ``, dsnHost(`mysql`, `not a dsn`))
	assert.Equal(t, ``, dsnHost(`sqlite`, `:memory:`))
}
