// Command notesctl reads and writes deal notes against a running dealnotes
// server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
