package cli

import (
	"fmt"
	"strings"

	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/intake"
	"github.com/sheikh-saqib/multi-store-cash-ledger/internal/models"
	"github.com/spf13/cobra"
)

func NewSubmitCommand(root *RootOptions) *cobra.Command {
	var (
		creds    credentials
		txType   string
		amount   string
		comment  string
		employee string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record a cash addition or withdrawal for the user's store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			desk, cleanup, err := openDesk(ctx, root.cfg, root.log)
			if err != nil {
				return err
			}
			defer cleanup()

			return asUser(ctx, desk, creds, func() error {
				tx, err := desk.Submit(ctx, intake.Request{
					Type:         models.TransactionType(strings.ToUpper(txType)),
					RawAmount:    amount,
					Comment:      comment,
					EmployeeName: employee,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recorded %s %s %s for %s (%s)\n",
					tx.ID, tx.Type, tx.Amount.StringFixed(2), tx.StoreID, tx.EmployeeName)
				return nil
			})
		},
	}

	creds.register(cmd)
	cmd.Flags().StringVar(&txType, "type", "ADD", "ADD or WITHDRAW")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, up to two decimals")
	cmd.Flags().StringVar(&comment, "comment", "", "reason for the movement")
	cmd.Flags().StringVar(&employee, "employee", "", "responsible employee of the user's store")
	return cmd
}
