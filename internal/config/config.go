package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage drivers. The memory driver keeps everything in-process and needs
// neither Postgres nor Redis; it exists for local runs and tests.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Gate     GateConfig
	Lot      LotConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	Driver string
}

type RedisConfig struct {
	// Addr empty disables Redis entirely: no cache, no pubsub, no rate
	// limiting, no idempotency replay.
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type GateConfig struct {
	// BarredPolicy is "warn" or "block".
	BarredPolicy string
}

// LotConfig is the layout seeded on first start when the spot registry is
// empty. Zero Floors skips auto-seeding.
type LotConfig struct {
	Floors       int
	RowsPerFloor int
	SlotsPerRow  int
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPort, err := envInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	driver := os.Getenv("STORAGE_DRIVER")
	if driver == "" {
		driver = DriverPostgres
	}
	if driver != DriverPostgres && driver != DriverMemory {
		return nil, fmt.Errorf("%s: invalid STORAGE_DRIVER %q", op, driver)
	}

	var postgresCfg PostgresConfig
	if driver == DriverPostgres {
		postgresHost := os.Getenv("POSTGRES_HOST")
		if postgresHost == "" {
			postgresHost = "localhost"
		}

		postgresPort, err := envInt("POSTGRES_PORT", 5432)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		postgresUser := os.Getenv("POSTGRES_USER")
		if postgresUser == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
		}

		postgresPassword := os.Getenv("POSTGRES_PASSWORD")
		if postgresPassword == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
		}

		postgresDB := os.Getenv("POSTGRES_DB")
		if postgresDB == "" {
			return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
		}

		postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
		if postgresSSLMode == "" {
			postgresSSLMode = "disable"
		}

		postgresCfg = PostgresConfig{
			User:     postgresUser,
			Password: postgresPassword,
			Name:     postgresDB,
			Host:     postgresHost,
			Port:     postgresPort,
			SSLMode:  postgresSSLMode,
		}
	}

	redisCfg := RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	barredPolicy := os.Getenv("GATE_BARRED_POLICY")
	if barredPolicy == "" {
		barredPolicy = "warn"
	}
	if barredPolicy != "warn" && barredPolicy != "block" {
		return nil, fmt.Errorf("%s: invalid GATE_BARRED_POLICY %q", op, barredPolicy)
	}

	lotFloors, err := envInt("LOT_FLOORS", 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lotRows, err := envInt("LOT_ROWS_PER_FLOOR", 10)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lotSlots, err := envInt("LOT_SLOTS_PER_ROW", 5)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Config{
		Server:   serverCfg,
		Storage:  StorageConfig{Driver: driver},
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Gate:     GateConfig{BarredPolicy: barredPolicy},
		Lot: LotConfig{
			Floors:       lotFloors,
			RowsPerFloor: lotRows,
			SlotsPerRow:  lotSlots,
		},
	}, nil
}

func envInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
