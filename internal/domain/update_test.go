package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func int64Ptr(i int64) *int64 { return &i }

func newTestAccount() *Account {
	return &Account{
		ID:      1,
		ChatID:  100,
		IsAdmin: false,
		Profile: &Profile{
			ID:        1,
			AccountID: 1,
			Handle:    "a",
			GivenName: strPtr("B"),
		},
	}
}

func TestAccountUpdateApply_PreservesUntouchedFields(t *testing.T) {
	t.Parallel()

	account := newTestAccount()
	update := AccountUpdate{Profile: ProfileFields{FamilyName: strPtr("C")}}

	accountChanged, profileChanged := update.Apply(account)

	assert.False(t, accountChanged)
	assert.True(t, profileChanged)
	assert.Equal(t, "a", account.Profile.Handle)
	assert.Equal(t, "B", *account.Profile.GivenName)
	assert.Equal(t, "C", *account.Profile.FamilyName)
	assert.Equal(t, int64(100), account.ChatID)
}

func TestAccountUpdateApply_RoutesFieldsToOwningRow(t *testing.T) {
	t.Parallel()

	account := newTestAccount()
	update := AccountUpdate{
		Account: AccountFields{IsAdmin: boolPtr(true)},
	}

	accountChanged, profileChanged := update.Apply(account)

	assert.True(t, accountChanged)
	assert.False(t, profileChanged)
	assert.True(t, account.IsAdmin)
}

func TestAccountUpdateApply_SameValueIsNoChange(t *testing.T) {
	t.Parallel()

	account := newTestAccount()
	update := AccountUpdate{
		Account: AccountFields{ChatID: int64Ptr(100)},
		Profile: ProfileFields{Handle: strPtr("a"), GivenName: strPtr("B")},
	}

	accountChanged, profileChanged := update.Apply(account)

	assert.False(t, accountChanged)
	assert.False(t, profileChanged)
}

func TestAccountUpdateApply_DoesNotAliasCallerStrings(t *testing.T) {
	t.Parallel()

	account := newTestAccount()
	given := "Z"
	update := AccountUpdate{Profile: ProfileFields{GivenName: &given}}
	update.Apply(account)

	given = "mutated"
	assert.Equal(t, "Z", *account.Profile.GivenName)
}

func TestAccountUpdateIsEmptyAndValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, AccountUpdate{}.IsEmpty())
	assert.False(t, AccountUpdate{Account: AccountFields{IsAdmin: boolPtr(false)}}.IsEmpty())

	assert.NoError(t, AccountUpdate{}.Validate())
	assert.ErrorIs(t, AccountUpdate{Account: AccountFields{ChatID: int64Ptr(0)}}.Validate(), ErrInvalidChatID)
	assert.ErrorIs(t, AccountUpdate{Profile: ProfileFields{Handle: strPtr("")}}.Validate(), ErrEmptyHandle)
	assert.ErrorIs(t, AccountUpdate{Profile: ProfileFields{Handle: strPtr("@x")}}.Validate(), ErrInvalidHandle)
}
