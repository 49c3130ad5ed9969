package domain

import (
	"strings"
	"time"
	"unicode"
)

// Account is a chat participant known to the bot. It is keyed externally by
// the chat identifier and owns exactly one Profile.
type Account struct {
	ID        int64     `json:"id" yaml:"id"`
	ChatID    int64     `json:"chat_id" yaml:"chat_id"`
	IsAdmin   bool      `json:"is_admin" yaml:"is_admin"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Profile   *Profile  `json:"profile" yaml:"profile"`
}

// Profile holds the public identity of an Account.
type Profile struct {
	ID         int64     `json:"id" yaml:"id"`
	AccountID  int64     `json:"account_id" yaml:"account_id"`
	Handle     string    `json:"handle" yaml:"handle"`
	GivenName  *string   `json:"given_name,omitempty" yaml:"given_name,omitempty"`
	FamilyName *string   `json:"family_name,omitempty" yaml:"family_name,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewAccount builds an Account together with its Profile. The two are always
// created as one unit; identifiers and timestamps are assigned by the store.
// Returns an error if validation fails.
func NewAccount(chatID int64, handle string, givenName, familyName *string, isAdmin bool) (*Account, error) {
	account := &Account{
		ChatID:  chatID,
		IsAdmin: isAdmin,
		Profile: &Profile{
			Handle:     handle,
			GivenName:  givenName,
			FamilyName: familyName,
		},
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account and its Profile have valid data.
func (a *Account) Validate() error {
	if a.ChatID == 0 {
		return ErrInvalidChatID
	}

	if a.Profile == nil {
		return ErrMissingProfile
	}

	return a.Profile.Validate()
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	return validateHandle(p.Handle)
}

// validateHandle enforces a bare handle: the chat platform's '@' prefix is
// stripped by the caller, and handles never contain whitespace.
func validateHandle(handle string) error {
	if handle == "" {
		return ErrEmptyHandle
	}

	if strings.HasPrefix(handle, "@") || strings.IndexFunc(handle, unicode.IsSpace) >= 0 {
		return ErrInvalidHandle
	}

	return nil
}
