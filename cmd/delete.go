// Handles the "vss delete" command

package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

var deleteCmdConfig struct {
	expectVersion int64
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a key",
	Long: `Removes one key from the selected store, optionally conditional on
--expect-version. Deletes are never retried automatically; rerun the command
on transient failures.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}

		request := &vsstypes.DeleteObjectRequest{
			StoreID: storeID,
			Key:     args[0],
		}
		if cmd.Flags().Changed("expect-version") {
			ev := deleteCmdConfig.expectVersion
			request.ExpectedVersion = &ev
		}

		_, err := vssManager.Client.DeleteObject(context.Background(), request)
		if err != nil {
			return errors.Wrap(err, "Delete command failed")
		}

		vssManager.Logger.Infof("deleted key=%s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().Int64Var(&deleteCmdConfig.expectVersion, "expect-version", 0,
		"only delete if the stored version still matches this value")
}
