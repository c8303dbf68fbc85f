package config

const (
	EnvPrefix = "ISOKO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "ISOKO_APP_ENV"
	EnvPort   = "ISOKO_APP_PORT"

	EnvDBDSN  = "ISOKO_DB_DSN"
	EnvDBHost = "ISOKO_DB_HOST"
	EnvDBUser = "ISOKO_DB_USER"
	EnvDBName = "ISOKO_DB_NAME"

	EnvRedisURL = "ISOKO_REDIS_URL"

	EnvJWTSecret  = "ISOKO_JWT_SECRET"
	EnvJWTIssuer  = "ISOKO_JWT_ISSUER"
	EnvJWTExpMins = "ISOKO_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID          = "ISOKO_GCP_PROJECT_ID"
	EnvPubSubNotificationSub = "ISOKO_PUBSUB_NOTIFICATION_SUBSCRIPTION"

	EnvAllocationPolicy = "ISOKO_FULFILLMENT_ALLOCATION_POLICY"

	AllocationPolicyStrict     = "strict"
	AllocationPolicyBestEffort = "best_effort"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
