package ops

import (
	"context"

	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/uow"
)

// AddForm creates a form on the given site.
// Fails with store.ErrSiteNotFound when the site does not exist.
func AddForm(siteID int64, name string) uow.Operation[*domain.Form] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Form], error) {
		form, err := domain.NewForm(siteID, name)
		if err != nil {
			return nil, invalid(err)
		}

		err = sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			return s.Forms.Create(ctx, form)
		})
		if err != nil {
			return nil, err
		}
		return uow.Rows(form), nil
	}
}

// ListForms returns the forms of a site, ordered by id.
// Fails with store.ErrSiteNotFound when the site does not exist.
func ListForms(siteID int64) uow.Operation[*domain.Form] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Form], error) {
		var forms []*domain.Form
		err := sessions.ReadOnly(ctx, func(ctx context.Context, s *uow.Session) error {
			if err := siteExists(ctx, s, siteID); err != nil {
				return err
			}
			var err error
			forms, err = s.Forms.ListBySite(ctx, siteID)
			return err
		})
		if err != nil {
			return nil, err
		}
		return uow.Rows(forms...), nil
	}
}

// RenameForm changes a form's name.
// Fails with store.ErrFormNotFound when the form does not exist.
func RenameForm(formID int64, name string) uow.Operation[*domain.Form] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Form], error) {
		if err := domain.ValidateFormName(name); err != nil {
			return nil, invalid(err)
		}

		var form *domain.Form
		err := sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			var err error
			form, err = s.Forms.Rename(ctx, formID, name)
			return err
		})
		if err != nil {
			return nil, err
		}
		return uow.Rows(form), nil
	}
}

// DeleteForm removes a form.
// Fails with store.ErrFormNotFound when the form does not exist.
func DeleteForm(formID int64) uow.Operation[*domain.Form] {
	return func(ctx context.Context, sessions uow.SessionFactory) (*uow.Result[*domain.Form], error) {
		return nil, sessions.InTx(ctx, func(ctx context.Context, s *uow.Session) error {
			return s.Forms.Delete(ctx, formID)
		})
	}
}
