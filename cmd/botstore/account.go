package main

import (
	"context"
	"strings"

	"github.com/phrazzld/botstore/internal/domain"
	"github.com/phrazzld/botstore/internal/ops"
	"github.com/phrazzld/botstore/internal/store"
	"github.com/phrazzld/botstore/internal/uow"
	"github.com/spf13/cobra"
)

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Create, inspect, update and delete accounts",
	}

	cmd.AddCommand(
		newAccountCreateCommand(a),
		newAccountGetCommand(a),
		newAccountListCommand(a),
		newAccountUpdateCommand(a),
		newAccountDeleteCommand(a),
	)
	return cmd
}

// normalizeHandle drops the '@' users tend to type in front of a handle.
func normalizeHandle(handle string) string {
	return strings.TrimPrefix(handle, "@")
}

// optionalString returns the flag's value when it was set on the command line.
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func newAccountCreateCommand(a *app) *cobra.Command {
	var p ops.CreateAccountParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and its profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Handle = normalizeHandle(p.Handle)
			p.GivenName = optionalString(cmd, "given-name")
			p.FamilyName = optionalString(cmd, "family-name")

			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				account, _, err := uow.GetOne(ctx, d, ops.CreateAccount(p))
				if err != nil {
					return err
				}
				return a.print(account)
			})
		},
	}

	cmd.Flags().Int64Var(&p.ChatID, "chat-id", 0, "Chat identifier of the account")
	cmd.Flags().StringVar(&p.Handle, "handle", "", "Public handle")
	cmd.Flags().String("given-name", "", "Given name")
	cmd.Flags().String("family-name", "", "Family name")
	cmd.Flags().BoolVar(&p.IsAdmin, "admin", false, "Grant administrator rights")
	_ = cmd.MarkFlagRequired("chat-id")
	_ = cmd.MarkFlagRequired("handle")
	return cmd
}

func newAccountGetCommand(a *app) *cobra.Command {
	var (
		chatID int64
		handle string
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one account by chat id or handle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op := ops.FetchAccountByChatID(chatID)
			if cmd.Flags().Changed("handle") {
				op = ops.FetchAccountByHandle(normalizeHandle(handle))
			}

			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				account, ok, err := uow.GetOne(ctx, d, op)
				if err != nil {
					return err
				}
				if !ok {
					return store.ErrAccountNotFound
				}
				return a.print(account)
			})
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat-id", 0, "Chat identifier of the account")
	cmd.Flags().StringVar(&handle, "handle", "", "Public handle")
	cmd.MarkFlagsOneRequired("chat-id", "handle")
	cmd.MarkFlagsMutuallyExclusive("chat-id", "handle")
	return cmd
}

func newAccountListCommand(a *app) *cobra.Command {
	var filter store.AccountFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				accounts, err := uow.GetMany(ctx, d, ops.ListAccounts(filter))
				if err != nil {
					return err
				}
				return a.print(accounts)
			})
		},
	}

	cmd.Flags().BoolVar(&filter.AdminsOnly, "admins", false, "Only list administrators")
	return cmd
}

func newAccountUpdateCommand(a *app) *cobra.Command {
	var chatID int64

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change selected fields of an account",
		Long:  `Only the flags given on the command line are changed; every other field keeps its stored value.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := accountUpdateFromFlags(cmd)
			if err != nil {
				return err
			}

			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				account, _, err := uow.GetOne(ctx, d, ops.UpdateAccount(chatID, update))
				if err != nil {
					return err
				}
				return a.print(account)
			})
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat-id", 0, "Chat identifier of the account to update")
	cmd.Flags().Int64("new-chat-id", 0, "New chat identifier")
	cmd.Flags().Bool("admin", false, "Administrator rights")
	cmd.Flags().String("handle", "", "New public handle")
	cmd.Flags().String("given-name", "", "New given name")
	cmd.Flags().String("family-name", "", "New family name")
	_ = cmd.MarkFlagRequired("chat-id")
	return cmd
}

func accountUpdateFromFlags(cmd *cobra.Command) (domain.AccountUpdate, error) {
	var update domain.AccountUpdate
	flags := cmd.Flags()

	if flags.Changed("new-chat-id") {
		v, err := flags.GetInt64("new-chat-id")
		if err != nil {
			return update, err
		}
		update.Account.ChatID = &v
	}
	if flags.Changed("admin") {
		v, err := flags.GetBool("admin")
		if err != nil {
			return update, err
		}
		update.Account.IsAdmin = &v
	}

	if handle := optionalString(cmd, "handle"); handle != nil {
		normalized := normalizeHandle(*handle)
		update.Profile.Handle = &normalized
	}
	update.Profile.GivenName = optionalString(cmd, "given-name")
	update.Profile.FamilyName = optionalString(cmd, "family-name")

	return update, nil
}

func newAccountDeleteCommand(a *app) *cobra.Command {
	var chatID int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account with its profile, sites and forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDispatcher(cmd.Context(), func(ctx context.Context, d *uow.Dispatcher) error {
				if err := uow.Do(ctx, d, ops.DeleteAccount(chatID)); err != nil {
					return err
				}
				return a.print(map[string]int64{"deleted_chat_id": chatID})
			})
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat-id", 0, "Chat identifier of the account")
	_ = cmd.MarkFlagRequired("chat-id")
	return cmd
}
