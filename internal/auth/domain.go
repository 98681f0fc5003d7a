// Package auth implements account registration, credential login and
// rotating refresh sessions backing the bearer tokens the rest of the API
// requires.
package auth

import "time"

// User is an account as exposed to API consumers. The password hash never
// leaves the store layer.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
