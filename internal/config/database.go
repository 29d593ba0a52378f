package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the configured database and sizes its connection pool.
func OpenDB(conf Database, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(conf)
	if err != nil {
		return nil, err
	}
	return openDialector(dialector, conf, log)
}

// openDialector owns the pool it opens: every failure path closes it.
func openDialector(dialector gorm.Dialector, conf Database, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormLogger,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		closePool(db)
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	log.Info("Database connected", zap.String("driver", conf.Driver), zap.String("host", conf.Host))
	return db, nil
}

func closePool(db *gorm.DB) {
	if db == nil || db.Config == nil || db.ConnPool == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func dialectorFor(conf Database) (gorm.Dialector, error) {
	switch conf.Driver {
	case "postgres":
		dsn := conf.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=%s password=%s",
				conf.Host, conf.User, conf.Name, conf.Port, conf.SSLMode, conf.Password)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := conf.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				conf.User, conf.Password, conf.Host, conf.Port, conf.Name)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := conf.DSN
		if dsn == "" {
			dsn = conf.Name + ".db?_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", conf.Driver)
}
