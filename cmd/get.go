// Handles the "vss get" command

package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch the value and version stored under a key",
	Long: `Fetches one key from the selected store. The raw value bytes go to
stdout; the server-assigned version is logged so it can be fed back into a
conditional put or delete via --expect-version.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}

		resp, err := vssManager.Client.GetObject(context.Background(), &vsstypes.GetObjectRequest{
			StoreID: storeID,
			Key:     args[0],
		})
		if err != nil {
			return errors.Wrap(err, "Get command failed")
		}

		vssManager.Logger.Infof("key=%s version=%d", resp.Value.Key, resp.Value.Version)
		os.Stdout.Write(resp.Value.Value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
