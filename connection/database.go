package connection

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/glebarez/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tasktracker/database"
)

// OpenStore connects to the configured backend and prepares its schema.
func OpenStore(ctx context.Context, cfg Config) (database.Store, error) {
	if cfg.StoreDriver == DriverFirestore {
		client, err := FBConnection(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return database.NewFirestoreStore(client, cfg.StatementTimeout), nil
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenGorm(dialector, logger.Warn)
	if err != nil {
		return nil, fmt.Errorf("[DB] connect failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.StoreDriver == DriverSQLite {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("[DB] ping failed: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("[DB] migrate failed: %w", err)
	}
	log.Printf("[DB] connected (%s)", cfg.StoreDriver)
	return database.NewGormStore(db, cfg.StatementTimeout), nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.StoreDriver {
	case DriverPostgres:
		return postgres.Open(postgresDSN(cfg)), nil
	case DriverMySQL:
		return mysql.Open(mysqlDSN(cfg)), nil
	case DriverSQLite:
		return sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func postgresDSN(cfg Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   cfg.DBHost + ":" + cfg.DBPort,
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.DBSSLMode)
	if cfg.StatementTimeout > 0 {
		q.Set("statement_timeout", fmt.Sprint(cfg.StatementTimeout.Milliseconds()))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func mysqlDSN(cfg Config) string {
	mc := gomysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = cfg.DBHost + ":" + cfg.DBPort
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	if cfg.StatementTimeout > 0 {
		mc.ReadTimeout = cfg.StatementTimeout
		mc.WriteTimeout = cfg.StatementTimeout
	}
	return mc.FormatDSN()
}
