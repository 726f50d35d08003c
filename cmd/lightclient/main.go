package main

import (
	"fmt"
	"os"

	"github.com/rony4d/go-lightclient/cmd/lightclient/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		// Report the issue so the user sees it
		fmt.Fprintln(os.Stderr, "Error:", err)

		// Exit with a non-zero status code to indicate failure
		os.Exit(1)
	}
}
