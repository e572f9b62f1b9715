package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"price-manager/pkg/pricing"
)

type outcome struct {
	ProductID  string `json:"product_id"`
	FinalPrice string `json:"final_price,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newBatchCmd() *cobra.Command {
	var (
		file      string
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Price a JSON array of records",
		Long: `Reads a JSON array of {"product_id", "base_price", "markup_percent"} records,
all string valued, from a file or stdin and prints the priced results as JSON.

By default the first bad record aborts the whole batch. With --keep-going every
record is priced independently and failures are reported inline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			records, err := readRecords(in)
			if err != nil {
				return err
			}

			if !keepGoing {
				results, err := pricing.BatchCalculateRecords(records)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), results)
			}

			outcomes := pricing.BatchCalculateRecordsEach(records)
			out := make([]outcome, len(outcomes))
			failed := 0
			for i, o := range outcomes {
				out[i] = outcome{ProductID: o.ProductID, FinalPrice: o.FinalPrice}
				if o.Err != nil {
					out[i].Error = o.Err.Error()
					failed++
				}
			}
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d records failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read records from file instead of stdin")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "price every record and report failures inline")
	return cmd
}

func readRecords(r io.Reader) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
