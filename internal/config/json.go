package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/cloudshare/internal/flagx"
	"github.com/dmitrijs2005/cloudshare/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "30m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	UserTableName        string         `json:"user_table_name"`
	FileTableName        string         `json:"file_table_name"`
	Bucket               string         `json:"bucket"`
	Region               string         `json:"region"`
	Endpoint             string         `json:"endpoint"`
	AccessKeyID          string         `json:"access_key_id"`
	SecretAccessKey      string         `json:"secret_access_key"`
	MaxFileSize          int64          `json:"max_file_size"`
	SecretKey            string         `json:"secret_key"`
	SessionTokenValidity timex.Duration `json:"session_token_validity"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags. If
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics: a misconfigured process should
// not come up at all.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.UserTableName = c.UserTableName
	config.FileTableName = c.FileTableName
	config.Bucket = c.Bucket
	config.Region = c.Region
	config.Endpoint = c.Endpoint
	config.AccessKeyID = c.AccessKeyID
	config.SecretAccessKey = c.SecretAccessKey
	config.MaxFileSize = c.MaxFileSize
	config.SecretKey = c.SecretKey
	config.SessionTokenValidity = time.Duration(c.SessionTokenValidity.Duration)
}
