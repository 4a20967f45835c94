package dbx

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/tomwright/xpdo"
	"gopkg.in/yaml.v3"
)

/*
Connection settings, usually loaded from YAML:

	driver: mysql
	mysql:
	  user: app
	  password: secret
	  addr: 127.0.0.1:3306
	  dbname: app
	  params:
	    charset: utf8mb4
	return_mode: assoc
	max_open_conns: 10
	slow_query: 200ms

Either `dsn` or `mysql` must be provided. A `dsn` is used verbatim; for the
"mysql" driver, it's validated first.
*/
type Config struct {
	Driver       string        `yaml:"driver"`
	DSN          string        `yaml:"dsn"`
	MySQL        *MySQLConfig  `yaml:"mysql"`
	ReturnMode   ReturnMode    `yaml:"return_mode"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	SlowQuery    time.Duration `yaml:"slow_query"`
}

// Structured MySQL connection settings, converted into a DSN via the driver.
type MySQLConfig struct {
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Net      string            `yaml:"net"`
	Addr     string            `yaml:"addr"`
	DBName   string            `yaml:"dbname"`
	Params   map[string]string `yaml:"params"`
}

// Reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configError(`reading `+path, err)
	}
	return ParseConfig(src)
}

// Parses and validates a YAML config.
func ParseConfig(src []byte) (Config, error) {
	var out Config
	err := yaml.Unmarshal(src, &out)
	if err != nil {
		return Config{}, configError(`decoding config`, err)
	}

	err = out.Validate()
	if err != nil {
		return Config{}, err
	}
	return out, nil
}

// Checks that the config can be used to open a connection.
func (self Config) Validate() error {
	if self.Driver == `` {
		return configError(`validating config`, fmt.Errorf(`missing driver`))
	}
	if !self.ReturnMode.IsValid() {
		return configError(`validating config`, fmt.Errorf(`unknown return_mode %q`, self.ReturnMode))
	}
	if self.MaxOpenConns < 0 {
		return configError(`validating config`, fmt.Errorf(`max_open_conns must be >= 0, got %v`, self.MaxOpenConns))
	}
	_, err := self.DataSource()
	return err
}

/*
Returns the data source name passed to `sql.Open`. For the "mysql" driver, a
verbatim DSN is validated with the driver's parser, and structured settings
are formatted by the driver.
*/
func (self Config) DataSource() (string, error) {
	if self.DSN != `` {
		if self.isMySQL() {
			_, err := mysql.ParseDSN(self.DSN)
			if err != nil {
				return ``, configError(`parsing MySQL DSN`, err)
			}
		}
		return self.DSN, nil
	}

	if self.MySQL != nil {
		if !self.isMySQL() {
			return ``, configError(`building DSN`, fmt.Errorf(`mysql settings require driver "mysql", got %q`, self.Driver))
		}
		return self.MySQL.FormatDSN(), nil
	}

	return ``, configError(`building DSN`, fmt.Errorf(`either dsn or mysql settings must be provided`))
}

func (self Config) isMySQL() bool { return strings.EqualFold(self.Driver, `mysql`) }

// Formats the settings as a MySQL DSN.
func (self MySQLConfig) FormatDSN() string {
	conf := mysql.NewConfig()
	conf.User = self.User
	conf.Passwd = self.Password
	conf.DBName = self.DBName
	conf.Net = self.Net
	conf.Addr = self.Addr
	if conf.Net == `` && conf.Addr != `` {
		conf.Net = `tcp`
	}
	if len(self.Params) > 0 {
		conf.Params = make(map[string]string, len(self.Params))
		for key, val := range self.Params {
			conf.Params[key] = val
		}
	}
	return conf.FormatDSN()
}

/*
Returns the host part of a DSN, or "" when it can't be determined. Only MySQL
DSNs carry a parseable address.
*/
func dsnHost(driver, dsn string) string {
	if !strings.EqualFold(driver, `mysql`) {
		return ``
	}

	conf, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ``
	}

	host, _, err := net.SplitHostPort(conf.Addr)
	if err != nil {
		return conf.Addr
	}
	return host
}

func configError(while string, cause error) error {
	return xpdo.Err{Code: xpdo.ErrCodeConfig, While: while, Cause: cause}
}
