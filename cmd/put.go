// Handles the "vss put" command

package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

var putCmdConfig struct {
	expectVersion int64
}

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Create or update a key",
	Long: `Writes one key to the selected store. Without --expect-version the
write is unconditional; with it, the server applies the write only if the
stored version still matches (optimistic concurrency). Conditional writes are
retried under the configured retry policy, which is safe because the version
precondition makes the request idempotent.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}

		item := vsstypes.TransactionItem{
			Key:   args[0],
			Value: []byte(args[1]),
		}
		if cmd.Flags().Changed("expect-version") {
			ev := putCmdConfig.expectVersion
			item.ExpectedVersion = &ev
		}

		_, err := vssManager.Client.PutObject(context.Background(), &vsstypes.PutObjectRequest{
			StoreID:          storeID,
			TransactionItems: []vsstypes.TransactionItem{item},
		})
		if err != nil {
			return errors.Wrap(err, "Put command failed")
		}

		vssManager.Logger.Infof("stored key=%s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)

	putCmd.Flags().Int64Var(&putCmdConfig.expectVersion, "expect-version", 0,
		"only write if the stored version still matches this value")
}
