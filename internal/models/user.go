package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UserRole represents the roles embedded in access tokens.
type UserRole string

const (
	RoleUser    UserRole = "USER"
	RoleService UserRole = "SERVICE"
)

// User represents an account stored in the users table. Addresses are kept
// embedded in the record, mirroring the registry's document shape.
type User struct {
	ID           string    `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Addresses    Addresses `db:"addresses" json:"addresses,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FirstName returns the leading word of the full name, used in email templates.
func (u *User) FirstName() string {
	for i, r := range u.FullName {
		if r == ' ' {
			return u.FullName[:i]
		}
	}
	return u.FullName
}

// Address is a delivery address embedded in the user record.
type Address struct {
	ID         string `json:"id"`
	ZipCode    string `json:"zip_code" validate:"required"`
	Street     string `json:"street" validate:"required"`
	District   string `json:"district" validate:"required"`
	Complement string `json:"complement,omitempty"`
	Number     string `json:"number" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
}

// Addresses is stored as a jsonb column.
type Addresses []Address

// Value implements driver.Valuer for jsonb storage.
func (a Addresses) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for jsonb storage.
func (a *Addresses) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported addresses column type %T", src)
	}
	return json.Unmarshal(raw, a)
}
