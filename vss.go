// Command line entry point for the vss tool. All of the real work happens in
// the cmd package (cobra subcommands) and pkg/vss (the client).
package main

import "github.com/versionedstorage/vss-go/cmd"

func main() {
	cmd.Execute()
}
