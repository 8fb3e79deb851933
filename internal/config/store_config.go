package config

import "time"

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

type StoreConfig interface {
	GetStoreDriver() string
	GetDatabaseURL() string
	GetStoreTimeout() time.Duration
}

type Store struct{}

var _ StoreConfig = Store{}

func (s Store) GetStoreDriver() string {
	if s.GetDatabaseURL() != "" {
		return GetEnv("STORE_DRIVER", StoreDriverPostgres)
	}
	return GetEnv("STORE_DRIVER", StoreDriverMemory)
}

func (Store) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

func (Store) GetStoreTimeout() time.Duration {
	return GetEnvDuration("STORE_TIMEOUT", 5*time.Second)
}
