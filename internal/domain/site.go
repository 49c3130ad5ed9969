package domain

import (
	"strings"
	"time"
	"unicode"
)

// Site is a web site registered by an Account.
type Site struct {
	ID        int64     `json:"id" yaml:"id"`
	AccountID int64     `json:"account_id" yaml:"account_id"`
	Domain    *string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewSite creates a Site owned by the given account. The domain is optional.
func NewSite(accountID int64, domain *string) (*Site, error) {
	site := &Site{
		AccountID: accountID,
		Domain:    domain,
	}

	if err := site.Validate(); err != nil {
		return nil, err
	}

	return site, nil
}

// Validate checks if the Site has valid data.
func (s *Site) Validate() error {
	if s.AccountID == 0 {
		return ErrEmptyAccountID
	}

	return ValidateSiteDomain(s.Domain)
}

// ValidateSiteDomain accepts a nil domain or a non-blank one without whitespace.
func ValidateSiteDomain(domain *string) error {
	if domain == nil {
		return nil
	}

	if strings.TrimSpace(*domain) == "" || strings.IndexFunc(*domain, unicode.IsSpace) >= 0 {
		return ErrInvalidSiteDomain
	}

	return nil
}
