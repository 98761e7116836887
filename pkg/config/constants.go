package config

const (
	// EnvPrefix scopes every environment variable read by envconfig.
	EnvPrefix = "AFFILIDASH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "AFFILIDASH_APP_ENV"
	EnvPort   = "AFFILIDASH_APP_PORT"

	EnvDBDSN  = "AFFILIDASH_DB_DSN"
	EnvDBHost = "AFFILIDASH_DB_HOST"
	EnvDBUser = "AFFILIDASH_DB_USER"
	EnvDBName = "AFFILIDASH_DB_NAME"

	EnvRedisURL = "AFFILIDASH_REDIS_URL"

	EnvUpstreamAPIBaseURL = "AFFILIDASH_UPSTREAM_API_BASE_URL"
	EnvUpstreamWSBaseURL  = "AFFILIDASH_UPSTREAM_WS_BASE_URL"
	EnvUpstreamToken      = "AFFILIDASH_UPSTREAM_TOKEN"

	EnvStreamFrequencyMS = "AFFILIDASH_STREAM_FREQUENCY_MS"
	EnvStreamNetworks    = "AFFILIDASH_STREAM_NETWORKS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
