package main

import (
	"context"

	"github.com/phrazzld/botstore/internal/ops"
	"github.com/phrazzld/botstore/internal/uow"
	"github.com/spf13/cobra"
)

func newFormCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "form",
		Aliases: []string{"forms"},
		Short:   "Manage the forms found on a site",
	}

	var (
		siteID int64
		formID int64
		name   string
	)

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a form to a site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				form, _, err := uow.GetOne(ctx, d, ops.AddForm(siteID, name))
				if err != nil {
					return err
				}
				return a.print(form)
			})
		},
	}
	add.Flags().Int64Var(&siteID, "site-id", 0, "Site identifier")
	add.Flags().StringVar(&name, "name", "", "Form name")
	_ = add.MarkFlagRequired("site-id")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List a site's forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				forms, err := uow.GetMany(ctx, d, ops.ListForms(siteID))
				if err != nil {
					return err
				}
				return a.print(forms)
			})
		},
	}
	list.Flags().Int64Var(&siteID, "site-id", 0, "Site identifier")
	_ = list.MarkFlagRequired("site-id")

	rename := &cobra.Command{
		Use:   "rename",
		Short: "Rename a form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				form, _, err := uow.GetOne(ctx, d, ops.RenameForm(formID, name))
				if err != nil {
					return err
				}
				return a.print(form)
			})
		},
	}
	rename.Flags().Int64Var(&formID, "form-id", 0, "Form identifier")
	rename.Flags().StringVar(&name, "name", "", "New form name")
	_ = rename.MarkFlagRequired("form-id")
	_ = rename.MarkFlagRequired("name")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				if err := uow.Do(ctx, d, ops.DeleteForm(formID)); err != nil {
					return err
				}
				return a.print(map[string]int64{"deleted_form_id": formID})
			})
		},
	}
	del.Flags().Int64Var(&formID, "form-id", 0, "Form identifier")
	_ = del.MarkFlagRequired("form-id")

	cmd.AddCommand(add, list, rename, del)
	return cmd
}
