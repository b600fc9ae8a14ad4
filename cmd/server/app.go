package main

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"dmchat/internal/config"
	"dmchat/internal/domain"
	"dmchat/internal/logging"
	"dmchat/internal/store/postgres"
	"dmchat/internal/store/sqlite"
)

// repos are the storage backends selected by STORE_DRIVER.
type repos struct {
	db       *sql.DB
	users    domain.UserRepository
	messages domain.MessageRepository
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// openStore opens and migrates the configured database.
func openStore(cfg *config.Config) (*repos, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &repos{db: db, users: postgres.NewUserRepo(db), messages: postgres.NewMessageRepo(db)}, nil
	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return &repos{db: db, users: sqlite.NewUserRepo(db), messages: sqlite.NewMessageRepo(db)}, nil
	}
}

func (r *repos) Close() {
	if err := r.db.Close(); err != nil {
		log.WithError(err).Warn("close database")
	}
}
