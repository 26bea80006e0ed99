package config

const (
	// EnvPrefix is applied by envconfig when mapping struct fields without
	// explicit tags; every variable below spells the prefix out anyway.
	EnvPrefix = "CATALOG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CATALOG_DB_DSN"
	EnvDBHost = "CATALOG_DB_HOST"
	EnvDBUser = "CATALOG_DB_USER"
	EnvDBName = "CATALOG_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// LocalFilePolicy values accepted by IngestConfig.LocalFilePolicy.
const (
	LocalFilePolicyPlaceholder = "placeholder"
	LocalFilePolicyReject      = "reject"
)
