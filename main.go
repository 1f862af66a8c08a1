// main is the entry point of the utilstudy CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/utilstudy/cmd"
	"github.com/huangsam/utilstudy/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
