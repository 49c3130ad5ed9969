package ops

import (
	"context"

	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/uow"
)

// AddSite registers a site for the account with the given chat id. The
// domain is optional. Fails with store.ErrAccountNotFound when the account
// does not exist.
func AddSite(chatID int64, domainName *string) uow.Operation[*domain.Site] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Site], error) {
		if err := domain.ValidateSiteDomain(domainName); err != nil {
			return nil, invalid(err)
		}

		var site *domain.Site
		err := sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			account, err := s.Accounts.LockByChatID(ctx, chatID)
			if err != nil {
				return err
			}

			site, err = domain.NewSite(account.ID, domainName)
			if err != nil {
				return invalid(err)
			}
			return s.Sites.Create(ctx, site)
		})
		if err != nil {
			return nil, err
		}

		return uow.Rows(site), nil
	}
}

// ListSites returns the sites of the account with the given chat id, ordered
// by id. An unknown account has no sites.
func ListSites(chatID int64) uow.Operation[*domain.Site] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Site], error) {
		var sites []*domain.Site
		err := sessions.ReadOnly(ctx, func(ctx context.Context, s *uow.Session) error {
			accounts, err := s.Accounts.FindByChatID(ctx, chatID)
			if err != nil || len(accounts) == 0 {
				return err
			}
			sites, err = s.Sites.ListByAccount(ctx, accounts[0].ID)
			return err
		})
		if err != nil {
			return nil, err
		}
		return uow.Rows(sites...), nil
	}
}

// UpdateSiteDomain replaces a site's domain; nil clears it.
// Fails with store.ErrSiteNotFound when the site does not exist.
func UpdateSiteDomain(siteID int64, domainName *string) uow.Operation[*domain.Site] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Site], error) {
		var site *domain.Site
		err := sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			var err error
			site, err = s.Sites.UpdateDomain(ctx, siteID, domainName)
			return err
		})
		if err != nil {
			return nil, err
		}
		return uow.Rows(site), nil
	}
}

// DeleteSite removes a site and its forms.
// Fails with store.ErrSiteNotFound when the site does not exist.
func DeleteSite(siteID int64) uow.Operation[*domain.Site] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Site], error) {
		return nil, sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			return s.Sites.Delete(ctx, siteID)
		})
	}
}

// siteExists is shared by the form operations that must report a missing
// parent site as store.ErrSiteNotFound rather than an empty result.
func siteExists(ctx context.Context, s *uow.Session, siteID int64) error {
	_, err := s.Sites.GetByID(ctx, siteID)
	return err
}
