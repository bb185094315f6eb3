/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command domainstore inspects the persistent-method catalog and the handler
// mappings of a configured store.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
