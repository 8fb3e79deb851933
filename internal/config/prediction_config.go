package config

import "time"

type PredictionConfig interface {
	GetPredictionURL() string
	GetPredictionAPIKey() string
	GetPredictionTokenURL() string
	GetPredictionClientID() string
	GetPredictionClientSecret() string
	GetPredictionTimeout() time.Duration
}

type Prediction struct{}

var _ PredictionConfig = Prediction{}

func (Prediction) GetPredictionURL() string {
	return GetEnv("PREDICTION_URL", "")
}

func (Prediction) GetPredictionAPIKey() string {
	return GetEnv("PREDICTION_API_KEY", "")
}

// GetPredictionTokenURL enables the client credentials grant against the inference service
func (Prediction) GetPredictionTokenURL() string {
	return GetEnv("PREDICTION_TOKEN_URL", "")
}

func (Prediction) GetPredictionClientID() string {
	return GetEnv("PREDICTION_CLIENT_ID", "")
}

func (Prediction) GetPredictionClientSecret() string {
	return GetEnv("PREDICTION_CLIENT_SECRET", "")
}

func (Prediction) GetPredictionTimeout() time.Duration {
	return GetEnvDuration("PREDICTION_TIMEOUT", 10*time.Second)
}
