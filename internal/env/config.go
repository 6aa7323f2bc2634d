package env

import "time"

// Config is the process configuration assembled from the environment.
type Config struct {
	LogLevel  string
	LogFormat string

	UserAgent   string
	HTTPTimeout time.Duration

	GeminiAPIKey string
	GeminiModel  string

	GeoNamesUsername string
	OverpassURL      string
	OverpassInterval time.Duration

	Kafka   KafkaConfig
	MinIO   MinIOConfig
	DBURL   string
	Metrics string
}

type KafkaConfig struct {
	Brokers       []string
	RequestsTopic string
	ProfilesTopic string
	GroupID       string
}

// Enabled reports whether enough is configured to consume requests.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.RequestsTopic != "" && k.GroupID != ""
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != "" && m.AccessKey != "" && m.SecretKey != ""
}

// Load reads the configuration. Call LoadEnv first to pick up a .env file.
func Load() Config {
	return Config{
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		LogFormat:        GetEnv("LOG_FORMAT", "text"),
		UserAgent:        GetEnv("USER_AGENT", "CityInfoService/1.0"),
		HTTPTimeout:      getDuration("HTTP_TIMEOUT", 30*time.Second),
		GeminiAPIKey:     GetEnv("GEMINI_API_KEY", GetEnv("GOOGLE_API_KEY", "")),
		GeminiModel:      GetEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeoNamesUsername: GetEnv("GEONAMES_USERNAME", "demo"),
		OverpassURL:      GetEnv("OSM_OVERPASS_API_URL", "https://overpass-api.de/api/interpreter"),
		OverpassInterval: getDuration("OSM_OVERPASS_INTERVAL", time.Second),
		Kafka: KafkaConfig{
			Brokers:       getList("KAFKA_BROKERS"),
			RequestsTopic: GetEnv("CITY_REQUESTS_TOPIC", "city-requests"),
			ProfilesTopic: GetEnv("CITY_PROFILES_TOPIC", "city-profiles"),
			GroupID:       GetEnv("KAFKA_GROUP_ID", "cityinfo-worker"),
		},
		MinIO: MinIOConfig{
			Endpoint:  GetEnv("MINIO_ENDPOINT", ""),
			AccessKey: GetEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: GetEnv("MINIO_SECRET_KEY", ""),
			Bucket:    GetEnv("MINIO_BUCKET", "city-profiles"),
			UseSSL:    getBool("MINIO_USE_SSL", false),
		},
		DBURL:   GetEnv("DATABASE_URL", ""),
		Metrics: GetEnv("METRICS_ADDR", ":9090"),
	}
}
