package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/flagx"
	"github.com/dmitrijs2005/gophreach/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "5m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	StoreDriver                 string         `json:"store_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	WorkbookPath                string         `json:"workbook_path"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ClaimLockMode               string         `json:"claim_lock_mode"`
	ClaimTTL                    timex.Duration `json:"claim_ttl"`
	RedisAddr                   string         `json:"redis_addr"`
	RedisPassword               string         `json:"redis_password"`
	RedisDB                     int            `json:"redis_db"`
	AllocationConcurrency       int            `json:"allocation_concurrency"`
	DefaultBatchSize            int            `json:"default_batch_size"`
	QueueLimit                  int            `json:"queue_limit"`
	LogBackend                  string         `json:"log_backend"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	EventDate                   string         `json:"event_date"`
	EventHour                   string         `json:"event_hour"`
	EventPlace                  string         `json:"event_place"`
	EventAddress                string         `json:"event_address"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing is loaded. Only keys present with a
// non-zero value override the current Config. Unreadable files or invalid
// JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StoreDriver, c.StoreDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.WorkbookPath, c.WorkbookPath)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.ClaimLockMode, c.ClaimLockMode)
	setDuration(&config.ClaimTTL, c.ClaimTTL)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setInt(&config.AllocationConcurrency, c.AllocationConcurrency)
	setInt(&config.DefaultBatchSize, c.DefaultBatchSize)
	setInt(&config.QueueLimit, c.QueueLimit)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.EventDate, c.EventDate)
	setString(&config.EventHour, c.EventHour)
	setString(&config.EventPlace, c.EventPlace)
	setString(&config.EventAddress, c.EventAddress)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
