package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the pricecalc command tree. Each call gets its own viper
// instance so flags and environment never leak between trees.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "pricecalc",
		Short: "Compute marked-up prices from the command line",
		Long: `pricecalc applies percentage markups to base prices with exact decimal
arithmetic, rounding half to even at two fractional digits. It can also mint
API tokens for the price-manager service.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		newCalculateCmd(),
		newBatchCmd(),
		newTokenCmd(v),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
