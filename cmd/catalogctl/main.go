// Command catalogctl manages the inventory catalog from a terminal: products,
// the price list and recorded sales.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
