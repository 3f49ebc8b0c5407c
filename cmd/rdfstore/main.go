// Command rdfstore is a command line front end for the embedded RDF store.
package main

import (
	"fmt"
	"os"

	"github.com/opd-ai/rdfstore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
