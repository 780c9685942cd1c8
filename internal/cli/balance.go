package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/apperrors"
	"github.com/spf13/cobra"
)

// NewBalanceCommand prints public balances. Like the public view, it never
// shows transactions.
func NewBalanceCommand(root *RootOptions) *cobra.Command {
	var storeID string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the public balance of one store or all stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			desk, cleanup, err := openDesk(ctx, root.cfg, root.log)
			if err != nil {
				return err
			}
			defer cleanup()

			balances, err := desk.Balances(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printed := 0
			for _, b := range balances {
				if storeID != "" && b.Store.ID != storeID {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.Store.ID, b.Store.Name, b.Balance.StringFixed(2))
				printed++
			}
			if printed == 0 {
				return apperrors.ErrUnknownStore
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "", "store id (all stores when omitted)")
	return cmd
}
