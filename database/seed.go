package database

import (
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates or updates the administrator account from the current
// configuration. Run at startup; the config is the source of truth for the
// password.
func EnsureAdmin(db *sql.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO user (username, password_hash) VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash`,
		username,
		string(hash),
	)
	return err
}
