package config

type Config interface {
	EnvConfig
	CorsConfig
	IdentityConfig
	SessionConfig
	StoreConfig
	PredictionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Identity
	Session
	Store
	Prediction
}

func New() Config {
	return mainConfig{}
}
