package store

import (
	"fmt"
	"strings"

	"github.com/go-authgate/payapproval/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverFactory opens a dialector for a DSN.
type DriverFactory func(dsn string) gorm.Dialector

var driverFactories = map[string]DriverFactory{
	config.DatabaseDriverSQLite:   sqlite.Open,
	config.DatabaseDriverPostgres: postgres.Open,
	config.DatabaseDriverMySQL: func(dsn string) gorm.Dialector {
		return mysql.Open(mysqlDSN(dsn))
	},
}

// GetDialector returns a GORM dialector for the given driver name and DSN
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	factory, ok := driverFactories[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return factory(dsn), nil
}

// RegisterDriver adds or replaces a driver, e.g. for tests.
func RegisterDriver(name string, factory DriverFactory) {
	driverFactories[name] = factory
}

// mysqlDSN makes DATETIME columns scan into time.Time. Without parseTime
// the expiry on xero_tokens comes back as []uint8 and the scan fails.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true&loc=UTC"
}
