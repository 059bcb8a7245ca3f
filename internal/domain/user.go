package domain

import (
	"time"
)

// User is a single profile record, unique per email.
type User struct {
	ID                 string
	Email              string
	Name               string
	Picture            string
	AppVersion         string
	Timezone           string
	DocumentInfo       string
	InstallationSource string
	CreatedAt          time.Time
	LastLogin          time.Time
}

// UserUpdate describes a partial update of an existing user. Nil fields
// are left unchanged in the stored record.
type UserUpdate struct {
	Email        string
	Name         string
	Picture      string
	AppVersion   *string
	Timezone     *string
	DocumentInfo *string
}

// LoginRecord captures a single login event. Append-only; login history
// is diagnostic, not authoritative.
type LoginRecord struct {
	Email        string
	LoginTime    time.Time
	DocumentInfo string
	AppVersion   string
}
