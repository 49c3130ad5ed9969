package main

import (
	"context"

	"github.com/phrazzld/botstore/internal/ops"
	"github.com/phrazzld/botstore/internal/uow"
	"github.com/spf13/cobra"
)

func newSiteCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "site",
		Aliases: []string{"sites"},
		Short:   "Manage the sites registered by an account",
	}

	var chatID int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a site for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domainName := optionalString(cmd, "domain")
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				site, _, err := uow.GetOne(ctx, d, ops.AddSite(chatID, domainName))
				if err != nil {
					return err
				}
				return a.print(site)
			})
		},
	}
	add.Flags().Int64Var(&chatID, "chat-id", 0, "Chat identifier of the owning account")
	add.Flags().String("domain", "", "Domain name of the site")
	_ = add.MarkFlagRequired("chat-id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List an account's sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				sites, err := uow.GetMany(ctx, d, ops.ListSites(chatID))
				if err != nil {
					return err
				}
				return a.print(sites)
			})
		},
	}
	list.Flags().Int64Var(&chatID, "chat-id", 0, "Chat identifier of the owning account")
	_ = list.MarkFlagRequired("chat-id")

	var siteID int64
	update := &cobra.Command{
		Use:   "update",
		Short: "Set or clear a site's domain",
		Long:  `Sets the domain to --domain, or clears it when the flag is omitted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domainName := optionalString(cmd, "domain")
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				site, _, err := uow.GetOne(ctx, d, ops.UpdateSiteDomain(siteID, domainName))
				if err != nil {
					return err
				}
				return a.print(site)
			})
		},
	}
	update.Flags().Int64Var(&siteID, "site-id", 0, "Site identifier")
	update.Flags().String("domain", "", "New domain name")
	_ = update.MarkFlagRequired("site-id")

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete a site and its forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				if err := uow.Do(ctx, d, ops.DeleteSite(siteID)); err != nil {
					return err
				}
				return a.print(map[string]int64{"deleted_site_id": siteID})
			})
		},
	}
	del.Flags().Int64Var(&siteID, "site-id", 0, "Site identifier")
	_ = del.MarkFlagRequired("site-id")

	cmd.AddCommand(add, list, update, del)
	return cmd
}
