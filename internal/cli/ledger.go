package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/cashdesk"
	"github.com/spf13/cobra"
)

type credentials struct {
	email    string
	password string
}

func (c *credentials) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "login email")
	cmd.Flags().StringVar(&c.password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

// asUser logs in, runs fn and always logs out again.
func asUser(ctx context.Context, desk *cashdesk.Desk, c credentials, fn func() error) (err error) {
	if _, err := desk.Login(ctx, c.email, c.password); err != nil {
		return err
	}
	defer func() {
		if logoutErr := desk.Logout(ctx); logoutErr != nil && err == nil {
			err = logoutErr
		}
	}()
	return fn()
}

func NewLedgerCommand(root *RootOptions) *cobra.Command {
	var (
		creds   credentials
		storeID string
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print a store's full ledger (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			desk, cleanup, err := openDesk(ctx, root.cfg, root.log)
			if err != nil {
				return err
			}
			defer cleanup()

			return asUser(ctx, desk, creds, func() error {
				view, err := desk.AuditLedger(ctx, storeID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "store %s  balance %s\n", view.StoreID, view.Balance.StringFixed(2))

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CREATED\tTYPE\tAMOUNT\tEMPLOYEE\tBY\tCOMMENT")
				for _, tx := range view.Transactions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						tx.CreatedAt.Format(time.RFC3339), tx.Type, tx.Amount.StringFixed(2),
						tx.EmployeeName, tx.CreatedBy, tx.Comment)
				}
				return w.Flush()
			})
		},
	}

	creds.register(cmd)
	cmd.Flags().StringVar(&storeID, "store", "", "store to audit (defaults to the admin's own)")
	return cmd
}
