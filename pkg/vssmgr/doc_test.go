package vssmgr

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/versionedstorage/vss-go/pkg/vsstypes"
)

func Example() {
	mgrArgs := map[string]interface{}{}
	// ./vss.yaml is a vss configuration that's been setup for your environment
	mgrArgs["config-file"] = "./vss.yaml"

	// Adding a custom logger is optional
	vssLogger := logrus.New()
	vssLogger.SetLevel(logrus.WarnLevel)
	mgrArgs["logger"] = vssLogger

	mgr, err := NewManager(mgrArgs)
	if err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Unconditional write of one item
	_, err = mgr.Client.PutObject(ctx, &vsstypes.PutObjectRequest{
		StoreID: "example-store",
		TransactionItems: []vsstypes.TransactionItem{
			{Key: "hello", Value: []byte("world")},
		},
	})
	if err != nil {
		fmt.Printf("Write failed: %v\n", err)
		os.Exit(1)
	}

	// Read it back; the response carries the server-assigned version
	resp, err := mgr.Client.GetObject(ctx, &vsstypes.GetObjectRequest{
		StoreID: "example-store",
		Key:     "hello",
	})
	if err != nil {
		fmt.Printf("Read failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s@%d\n", resp.Value.Value, resp.Value.Version)
}
