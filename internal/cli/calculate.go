package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"price-manager/pkg/pricing"
)

func newCalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calculate <base_price> <markup_percent>",
		Short: "Apply one markup to one base price",
		Example: `  pricecalc calculate 100.00 15
  pricecalc calculate 19.99 -10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := pricing.CalculatePrice(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), price)
			return nil
		},
	}
}
