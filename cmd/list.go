// Handles the "vss list" command

package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

var listCmdConfig struct {
	prefix    string
	pageSize  int32
	pageToken string
	onePage   bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List keys and their current versions",
	Long: `Enumerates (key, version) pairs in the selected store, one per line.
By default all pages are fetched; use --one-page together with --page-token to
paginate manually.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireStore(); err != nil {
			return err
		}

		ctx := context.Background()
		pageToken := listCmdConfig.pageToken

		for {
			resp, err := vssManager.Client.ListKeyVersions(ctx, &vsstypes.ListKeyVersionsRequest{
				StoreID:   storeID,
				KeyPrefix: listCmdConfig.prefix,
				PageSize:  listCmdConfig.pageSize,
				PageToken: pageToken,
			})
			if err != nil {
				return errors.Wrap(err, "List command failed")
			}

			for _, kv := range resp.KeyVersions {
				fmt.Printf("%s\t%d\n", kv.Key, kv.Version)
			}

			if resp.NextPageToken == "" {
				return nil
			}
			if listCmdConfig.onePage {
				vssManager.Logger.Infof("next page token: %s", resp.NextPageToken)
				return nil
			}
			pageToken = resp.NextPageToken
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listCmdConfig.prefix, "prefix", "p", "", "only list keys with this prefix")
	listCmd.Flags().Int32Var(&listCmdConfig.pageSize, "page-size", 0, "page size to request (0 lets the server pick)")
	listCmd.Flags().StringVar(&listCmdConfig.pageToken, "page-token", "", "resume listing from this token")
	listCmd.Flags().BoolVar(&listCmdConfig.onePage, "one-page", false, "fetch a single page and print the next token")
}
