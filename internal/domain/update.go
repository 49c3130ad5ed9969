package domain

// AccountFields lists the mutable columns owned by the Account row.
// A nil field is left untouched.
type AccountFields struct {
	ChatID  *int64
	IsAdmin *bool
}

// ProfileFields lists the mutable columns owned by the Profile row.
// A nil field is left untouched.
type ProfileFields struct {
	Handle     *string
	GivenName  *string
	FamilyName *string
}

// AccountUpdate is a partial update of an Account and its Profile.
// Fields are grouped by the row that owns them so the store knows which
// rows need to be written.
type AccountUpdate struct {
	Account AccountFields
	Profile ProfileFields
}

// IsEmpty reports whether the update sets no field at all.
func (u AccountUpdate) IsEmpty() bool {
	return u.Account == (AccountFields{}) && u.Profile == (ProfileFields{})
}

// Validate checks the supplied values without looking at the target account.
func (u AccountUpdate) Validate() error {
	if u.Account.ChatID != nil && *u.Account.ChatID == 0 {
		return ErrInvalidChatID
	}

	if u.Profile.Handle != nil {
		if err := validateHandle(*u.Profile.Handle); err != nil {
			return err
		}
	}

	return nil
}

// Apply merges the non-nil fields into the account and reports which rows
// actually changed. Values equal to the current ones do not count as changes.
func (u AccountUpdate) Apply(a *Account) (accountChanged, profileChanged bool) {
	if v := u.Account.ChatID; v != nil && *v != a.ChatID {
		a.ChatID = *v
		accountChanged = true
	}
	if v := u.Account.IsAdmin; v != nil && *v != a.IsAdmin {
		a.IsAdmin = *v
		accountChanged = true
	}

	if a.Profile == nil {
		return accountChanged, false
	}

	p := a.Profile
	if v := u.Profile.Handle; v != nil && *v != p.Handle {
		p.Handle = *v
		profileChanged = true
	}
	if v := u.Profile.GivenName; v != nil && !equalStringPtr(v, p.GivenName) {
		p.GivenName = stringPtr(*v)
		profileChanged = true
	}
	if v := u.Profile.FamilyName; v != nil && !equalStringPtr(v, p.FamilyName) {
		p.FamilyName = stringPtr(*v)
		profileChanged = true
	}

	return accountChanged, profileChanged
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringPtr(s string) *string {
	return &s
}
