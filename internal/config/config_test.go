package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "cloudshare_users", cfg.UserTableName)
	assert.Equal(t, "cloudshare_files", cfg.FileTableName)
	assert.Equal(t, "cloudshare-files", cfg.Bucket)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 30*time.Minute, cfg.SessionTokenValidity)
}

func TestParseFlags(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"app", "-b", "other-bucket", "-g", "eu-west-1", "-m", "1024", "-t", "5"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "other-bucket", cfg.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, 5*time.Minute, cfg.SessionTokenValidity)
	// untouched fields keep their defaults
	assert.Equal(t, "cloudshare_users", cfg.UserTableName)
}

func TestParseJson(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	content := `{
		"user_table_name": "u",
		"file_table_name": "f",
		"bucket": "b",
		"region": "eu-central-1",
		"endpoint": "http://127.0.0.1:9000/",
		"access_key_id": "ak",
		"secret_access_key": "sk",
		"max_file_size": 2048,
		"secret_key": "s3cret",
		"session_token_validity": "45m"
	}`
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o660))

	os.Args = []string{"app", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "u", cfg.UserTableName)
	assert.Equal(t, "f", cfg.FileTableName)
	assert.Equal(t, "b", cfg.Bucket)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "http://127.0.0.1:9000/", cfg.Endpoint)
	assert.Equal(t, "ak", cfg.AccessKeyID)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.SessionTokenValidity)
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"app"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "cloudshare_users", cfg.UserTableName)
}
