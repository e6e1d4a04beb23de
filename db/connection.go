package db

import (
	"database/sql"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLitePath is used when DATABASE_URL is unset.
const DefaultSQLitePath = "soapbridge.db"

type DatabaseConnection struct {
	db    *gorm.DB
	sqlDb *sql.DB
}

// Connection is the process-wide handle, assigned once by InitDb at startup.
var Connection *DatabaseConnection

// InitDb connects using the configured database URL and stores the result in
// Connection. The process cannot do anything useful without a catalog, so a
// failed connection exits.
func InitDb() *DatabaseConnection {
	conn, err := NewConnection(viper.GetString("database.url"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		os.Exit(1)
	}
	Connection = conn
	return conn
}

// NewConnection opens the catalog database and migrates its schema.
// URLs with a postgres scheme use the postgres driver; everything else is
// treated as a sqlite file path.
func NewConnection(databaseURL string) (*DatabaseConnection, error) {
	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"):
		dialector = postgres.Open(databaseURL)
	default:
		dialector = sqlite.Open(sqliteDSN(databaseURL))
	}

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	database, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		// TranslateError maps dialect-specific unique violations to
		// gorm.ErrDuplicatedKey, which the service catalog relies on to
		// detect name conflicts on both sqlite and postgres.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(&Service{}, &Operation{}, &WSDLCacheEntry{}); err != nil {
		return nil, err
	}

	sqlDb, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDb.SetMaxIdleConns(10)
	sqlDb.SetMaxOpenConns(80)
	sqlDb.SetConnMaxLifetime(time.Hour)

	return &DatabaseConnection{db: database, sqlDb: sqlDb}, nil
}

// sqliteDSN adds a busy timeout unless the caller already passed DSN
// parameters. Request handlers share the file, and concurrent writers would
// otherwise fail immediately with SQLITE_BUSY.
func sqliteDSN(databaseURL string) string {
	if databaseURL == "" {
		databaseURL = DefaultSQLitePath
	}
	if strings.Contains(databaseURL, "?") {
		return databaseURL
	}
	return databaseURL + "?_busy_timeout=5000"
}

// Ping verifies the database is still reachable.
func (d *DatabaseConnection) Ping() error {
	return d.sqlDb.Ping()
}

func (d *DatabaseConnection) Close() error {
	return d.sqlDb.Close()
}
