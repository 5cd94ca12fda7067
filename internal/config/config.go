// Package config handles runtime configuration, applying defaults, an
// optional JSON overlay, and command-line flags, in that order.
package config

import "time"

// Config holds runtime settings for cloudshare.
//
// Fields:
//   - UserTableName / FileTableName: metadata-store table names.
//   - Bucket / Region / Endpoint: object storage settings. Endpoint is
//     optional and only needed for S3-compatible backends (e.g. MinIO).
//   - AccessKeyID / SecretAccessKey: static credentials for both stores;
//     leave empty to use the default AWS credential chain.
//   - MaxFileSize: upload size cap in bytes, enforced before any network call.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use
//     the test default in prod.
//   - SessionTokenValidity: lifetime of a session token.
type Config struct {
	UserTableName        string
	FileTableName        string
	Bucket               string
	Region               string
	Endpoint             string
	AccessKeyID          string
	SecretAccessKey      string
	MaxFileSize          int64
	SecretKey            string
	SessionTokenValidity time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.UserTableName = "cloudshare_users"
	c.FileTableName = "cloudshare_files"
	c.Bucket = "cloudshare-files"
	c.Region = "us-east-1"
	c.Endpoint = ""
	c.AccessKeyID = ""
	c.SecretAccessKey = ""
	c.MaxFileSize = 10 * 1024 * 1024
	c.SecretKey = "secretKey"
	c.SessionTokenValidity = 30 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
