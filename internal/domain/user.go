// Package domain defines the persistent data structures of the application.
package domain

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext. Accounts are never updated or deleted.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
}
