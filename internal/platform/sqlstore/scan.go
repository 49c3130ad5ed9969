package sqlstore

import (
	"database/sql"

	"github.com/phrazzld/botstore/internal/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const accountColumns = `
	a.id, a.chat_id, a.is_admin, a.created_at, a.updated_at,
	p.id, p.account_id, p.handle, p.given_name, p.family_name, p.created_at, p.updated_at`

const selectAccounts = `SELECT` + accountColumns + `
	FROM accounts a
	JOIN profiles p ON p.account_id = a.id`

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a                     domain.Account
		p                     domain.Profile
		givenName, familyName sql.NullString
	)

	err := row.Scan(
		&a.ID, &a.ChatID, &a.IsAdmin, &a.CreatedAt, &a.UpdatedAt,
		&p.ID, &p.AccountID, &p.Handle, &givenName, &familyName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.GivenName = nullableString(givenName)
	p.FamilyName = nullableString(familyName)
	a.Profile = &p
	return &a, nil
}

const selectSites = `SELECT id, account_id, domain, created_at, updated_at FROM sites`

func scanSite(row rowScanner) (*domain.Site, error) {
	var (
		s          domain.Site
		domainName sql.NullString
	)
	if err := row.Scan(&s.ID, &s.AccountID, &domainName, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Domain = nullableString(domainName)
	return &s, nil
}

const selectForms = `SELECT id, site_id, name, created_at, updated_at FROM forms`

func scanForm(row rowScanner) (*domain.Form, error) {
	var f domain.Form
	if err := row.Scan(&f.ID, &f.SiteID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// collect drains rows through scan. The result is never nil.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer func() { _ = rows.Close() }()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
