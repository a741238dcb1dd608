package config

// EnvPrefix is the envconfig prefix shared by every service binary.
const EnvPrefix = "livedeals"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv             = "LIVEDEALS_APP_ENV"
	EnvPort               = "LIVEDEALS_APP_PORT"
	EnvDBDSN              = "LIVEDEALS_DB_DSN"
	EnvDBHost             = "LIVEDEALS_DB_HOST"
	EnvDBUser             = "LIVEDEALS_DB_USER"
	EnvDBName             = "LIVEDEALS_DB_NAME"
	EnvRedisURL           = "LIVEDEALS_REDIS_URL"
	EnvJWTSecret          = "LIVEDEALS_JWT_SECRET"
	EnvJWTIssuer          = "LIVEDEALS_JWT_ISSUER"
	EnvGatewaySecret      = "LIVEDEALS_GATEWAY_WEBHOOK_SECRET"
	EnvGatewayNotifyURL   = "LIVEDEALS_GATEWAY_NOTIFY_URL"
	EnvGatewayAllowBypass = "LIVEDEALS_GATEWAY_ALLOW_SIMULATION_BYPASS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
