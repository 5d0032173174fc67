package config

import "github.com/dmitrijs2005/gophreach/internal/flagx"

// parseEnv overlays GOPHREACH_* environment variables. Unset or malformed
// variables leave the current value in place.
func parseEnv(c *Config) {
	c.EndpointAddrGRPC = flagx.EnvString("GOPHREACH_GRPC_ADDR", c.EndpointAddrGRPC)
	c.StoreDriver = flagx.EnvString("GOPHREACH_STORE_DRIVER", c.StoreDriver)
	c.DatabaseDSN = flagx.EnvString("GOPHREACH_DATABASE_DSN", c.DatabaseDSN)
	c.WorkbookPath = flagx.EnvString("GOPHREACH_WORKBOOK_PATH", c.WorkbookPath)
	c.SecretKey = flagx.EnvString("GOPHREACH_SECRET_KEY", c.SecretKey)
	c.AccessTokenValidityDuration = flagx.EnvDuration("GOPHREACH_ACCESS_TOKEN_TTL", c.AccessTokenValidityDuration)
	c.S3RootUser = flagx.EnvString("GOPHREACH_S3_USER", c.S3RootUser)
	c.S3RootPassword = flagx.EnvString("GOPHREACH_S3_PASSWORD", c.S3RootPassword)
	c.S3Bucket = flagx.EnvString("GOPHREACH_S3_BUCKET", c.S3Bucket)
	c.S3Region = flagx.EnvString("GOPHREACH_S3_REGION", c.S3Region)
	c.S3BaseEndpoint = flagx.EnvString("GOPHREACH_S3_ENDPOINT", c.S3BaseEndpoint)
	c.ClaimLockMode = flagx.EnvString("GOPHREACH_CLAIM_LOCK", c.ClaimLockMode)
	c.ClaimTTL = flagx.EnvDuration("GOPHREACH_CLAIM_TTL", c.ClaimTTL)
	c.RedisAddr = flagx.EnvString("GOPHREACH_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = flagx.EnvString("GOPHREACH_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = flagx.EnvInt("GOPHREACH_REDIS_DB", c.RedisDB)
	c.AllocationConcurrency = flagx.EnvInt("GOPHREACH_ALLOCATION_CONCURRENCY", c.AllocationConcurrency)
	c.LogBackend = flagx.EnvString("GOPHREACH_LOG_BACKEND", c.LogBackend)
	c.LogFormat = flagx.EnvString("GOPHREACH_LOG_FORMAT", c.LogFormat)
	c.LogLevel = flagx.EnvString("GOPHREACH_LOG_LEVEL", c.LogLevel)
}
