package store

import "fmt"

// Options selects and configures a Store backend.
type Options struct {
	// Backend is one of "redis", "sqlite", "postgres", "memory".
	Backend     string
	RedisAddr   string
	SQLitePath  string
	PostgresDSN string
}

// Open creates the configured Store backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "redis", "":
		return NewRedisStore(opts.RedisAddr)
	case "sqlite":
		path := opts.SQLitePath
		if path == "" {
			path = "lumina.db"
		}
		return NewSQLiteStore(path)
	case "postgres":
		return NewPostgresStore(opts.PostgresDSN)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
