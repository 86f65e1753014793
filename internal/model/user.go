package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is one row of the Signing sheet. Email is unique, case-insensitive.
type User struct {
	ID           string    `json:"userId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Username     string    `json:"username"`
	ImageURL     string    `json:"imageUrl"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	SignupDate   time.Time `json:"-"`
	LastLogin    time.Time `json:"-"`
}

// WhitelistEntry gates signup and login. Email is unique, case-insensitive.
type WhitelistEntry struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	AddedBy   string `json:"addedBy"`
	DateAdded string `json:"dateAdded"`
}

// Settings holds the dropdown vocabularies from the Settings sheet.
type Settings struct {
	LetterTypes     []string `json:"letterTypes"`
	RecipientTitles []string `json:"recipientTitles"`
	Styles          []string `json:"styles"`
}

// NotificationLog is one recorded notification event.
type NotificationLog struct {
	ID        int
	Event     string
	LetterID  string
	Message   string
	CreatedAt time.Time
}
