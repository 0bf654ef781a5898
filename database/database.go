// Package database owns the process-wide connection pool.
//
// A Provider is built once in main and handed to every component that runs
// queries. The pool is opened lazily on the first call to Pool and the same
// *gorm.DB is returned for the rest of the process lifetime.
package database

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/devsstudio/skillsview/config"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Provider struct {
	cfg    config.DBConfig
	logger *slog.Logger
	open   func(gorm.Dialector, *gorm.Config) (*gorm.DB, error)

	once sync.Once
	db   *gorm.DB
	err  error
}

func NewProvider(cfg config.DBConfig, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, logger: logger, open: openGorm}
}

func openGorm(dialector gorm.Dialector, cfg *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(dialector, cfg)
}

// Pool returns the shared pool, opening it on first use. A failed open is
// remembered; the provider does not retry.
func (p *Provider) Pool() (*gorm.DB, error) {
	p.once.Do(func() {
		p.db, p.err = p.connect()
	})
	return p.db, p.err
}

// Close releases the pool if it was ever opened.
func (p *Provider) Close() error {
	if p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *Provider) connect() (*gorm.DB, error) {
	dialector, err := Dialector(p.cfg)
	if err != nil {
		return nil, err
	}

	db, err := p.open(dialector, &gorm.Config{
		Logger:                 newGormLogger(p.logger, p.cfg.SlowQuery),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", p.cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: pool: %w", err)
	}
	// database/sql queues callers without limit once MaxOpenConns is reached.
	sqlDB.SetMaxOpenConns(p.cfg.MaxConns)
	sqlDB.SetMaxIdleConns(p.cfg.MaxIdle)
	if p.cfg.IdleTimeout > 0 {
		sqlDB.SetConnMaxIdleTime(p.cfg.IdleTimeout)
	}

	p.logger.Info("database pool ready",
		"driver", p.cfg.Driver,
		"host", p.cfg.Host,
		"port", p.cfg.Port,
		"database", p.cfg.Name,
		"max_conns", p.cfg.MaxConns,
		"tls", p.cfg.SSL,
	)
	return db, nil
}

// Dialector builds the gorm dialector for the configured driver.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql", "":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "postgres":
		return postgres.Open(PostgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
}

func MySQLDSN(cfg config.DBConfig) string {
	dsn := mysqldriver.NewConfig()
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.DBName = cfg.Name
	dsn.ParseTime = true
	dsn.Timeout = cfg.ConnectTimeout
	if cfg.SSL {
		// Encrypted but unverified, matching servers with self-signed certs.
		dsn.TLSConfig = "skip-verify"
	}
	return dsn.FormatDSN()
}

func PostgresDSN(cfg config.DBConfig) string {
	sslMode := "disable"
	if cfg.SSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pgQuote(cfg.Host), cfg.Port, pgQuote(cfg.User), pgQuote(cfg.Password), pgQuote(cfg.Name), sslMode)
	if cfg.ConnectTimeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", int(cfg.ConnectTimeout/time.Second))
	}
	return dsn
}

var pgEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// pgQuote single-quotes a keyword/value DSN value so spaces and quotes survive.
func pgQuote(v string) string {
	return "'" + pgEscaper.Replace(v) + "'"
}

func newGormLogger(logger *slog.Logger, slow time.Duration) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
