// Package models contains the persisted data shapes shared by repositories
// and services.
package models

import "time"

// User is a registered account, keyed by username in the user table.
//
// UserName and CreatedAt are immutable after registration; LastLogin is
// updated on each successful authentication.
type User struct {
	UserName     string    `dynamodbav:"username"`
	PasswordHash string    `dynamodbav:"password_hash"`
	CreatedAt    time.Time `dynamodbav:"created_at"`
	LastLogin    time.Time `dynamodbav:"last_login"`
}
