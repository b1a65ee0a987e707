package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "CAMPUSMARKET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
