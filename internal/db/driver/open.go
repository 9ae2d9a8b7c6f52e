package driver

import (
	"fmt"

	"github.com/lilykang127/connect-ltv/internal/config"
	"github.com/lilykang127/connect-ltv/internal/db"
	"github.com/lilykang127/connect-ltv/internal/db/postgres"
	dbRedis "github.com/lilykang127/connect-ltv/internal/db/redis"
	"github.com/lilykang127/connect-ltv/internal/db/sqlite"
)

// Open creates the record store selected by cfg.Driver. Valkey speaks the
// Redis protocol and shares the Redis driver.
func Open(cfg config.DatabaseConfig) (db.ProfileStore, error) {
	var (
		store db.ProfileStore
		err   error
	)
	// assign through concrete pointers so a failed constructor never yields a typed nil
	switch cfg.Driver {
	case config.DriverPostgres:
		var s *postgres.Store
		if s, err = postgres.NewStore(postgres.Config{
			DSN:          cfg.DSN,
			Table:        cfg.Table,
			MaxOpenConns: cfg.MaxOpenConns,
		}); err == nil {
			store = s
		}
	case config.DriverSQLite:
		var s *sqlite.Store
		if s, err = sqlite.NewStore(sqlite.Config{
			Path:  cfg.Path,
			Table: cfg.Table,
		}); err == nil {
			store = s
		}
	case config.DriverRedis, config.DriverValkey:
		var s *dbRedis.Store
		if s, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		}); err == nil {
			store = s
		}
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	return store, nil
}
