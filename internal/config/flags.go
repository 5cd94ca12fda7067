package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cloudshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   user table name
//	-f string   file table name
//	-b string   bucket name
//	-g string   region
//	-e string   base endpoint for S3-compatible backends
//	-k string   access key id
//	-p string   secret access key
//	-m int      maximum file size, bytes
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other packages.
//   - The validity flag is accepted as an integer in minutes and converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-f", "-b", "-g", "-e", "-k", "-p", "-m", "-s", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.UserTableName, "u", config.UserTableName, "user table name")
	fs.StringVar(&config.FileTableName, "f", config.FileTableName, "file table name")
	fs.StringVar(&config.Bucket, "b", config.Bucket, "bucket name")
	fs.StringVar(&config.Region, "g", config.Region, "region")
	fs.StringVar(&config.Endpoint, "e", config.Endpoint, "base endpoint")
	fs.StringVar(&config.AccessKeyID, "k", config.AccessKeyID, "access key id")
	fs.StringVar(&config.SecretAccessKey, "p", config.SecretAccessKey, "secret access key")
	fs.Int64Var(&config.MaxFileSize, "m", config.MaxFileSize, "maximum file size (bytes)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTokenValidity := fs.Int("t", int(config.SessionTokenValidity.Minutes()), "session_token_validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidity = time.Duration(*sessionTokenValidity) * time.Minute
}
