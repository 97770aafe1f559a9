package store

// Backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config selects and configures a store backend.
type Config struct {
	Backend  string         `json:"backend,omitempty" env:"BACKEND"`
	Codec    string         `json:"codec,omitempty" env:"CODEC"`
	Path     string         `json:"path,omitempty" env:"PATH"`
	Redis    RedisConfig    `json:"redis" envPrefix:"REDIS_"`
	Postgres PostgresConfig `json:"postgres" envPrefix:"POSTGRES_"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" env:"ADDR"`
	Password string `json:"password,omitempty" env:"PASSWORD"`
	DB       int    `json:"db,omitempty" env:"DB"`
	Prefix   string `json:"prefix,omitempty" env:"PREFIX"`
}

// PostgresConfig holds PostgreSQL connection parameters. With
// EnsureSchema set, Open creates the table when it is missing.
type PostgresConfig struct {
	DSN          string `json:"dsn,omitempty" env:"DSN"`
	Table        string `json:"table,omitempty" env:"TABLE"`
	EnsureSchema bool   `json:"ensure_schema,omitempty" env:"ENSURE_SCHEMA"`
}

// DefaultConfig returns an in-memory store encoding documents as JSON.
func DefaultConfig() Config {
	return Config{
		Backend: BackendMemory,
		Codec:   "json",
		Path:    "runs",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: DefaultRedisPrefix,
		},
		Postgres: PostgresConfig{
			Table: DefaultPostgresTable,
		},
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Codec != "" {
		c.Codec = source.Codec
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.Redis.Addr != "" {
		c.Redis.Addr = source.Redis.Addr
	}
	if source.Redis.Password != "" {
		c.Redis.Password = source.Redis.Password
	}
	if source.Redis.DB != 0 {
		c.Redis.DB = source.Redis.DB
	}
	if source.Redis.Prefix != "" {
		c.Redis.Prefix = source.Redis.Prefix
	}
	if source.Postgres.DSN != "" {
		c.Postgres.DSN = source.Postgres.DSN
	}
	if source.Postgres.Table != "" {
		c.Postgres.Table = source.Postgres.Table
	}
	if source.Postgres.EnsureSchema {
		c.Postgres.EnsureSchema = true
	}
}
