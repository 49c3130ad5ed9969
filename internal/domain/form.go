package domain

import (
	"strings"
	"time"
)

// Form is a named form found on a Site.
type Form struct {
	ID        int64     `json:"id" yaml:"id"`
	SiteID    int64     `json:"site_id" yaml:"site_id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewForm creates a Form on the given site.
func NewForm(siteID int64, name string) (*Form, error) {
	form := &Form{
		SiteID: siteID,
		Name:   name,
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	return form, nil
}

// Validate checks if the Form has valid data.
func (f *Form) Validate() error {
	if f.SiteID == 0 {
		return ErrEmptySiteID
	}

	return ValidateFormName(f.Name)
}

// ValidateFormName rejects empty and whitespace-only names.
func ValidateFormName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyFormName
	}
	return nil
}
