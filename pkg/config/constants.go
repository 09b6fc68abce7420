package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "NOTES"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv = "NOTES_APP_ENV"
	EnvDBDSN  = "NOTES_DB_DSN"
	EnvDBHost = "NOTES_DB_HOST"
	EnvDBUser = "NOTES_DB_USER"
	EnvDBName = "NOTES_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
