// Command abeval is the offline evaluation harness CLI. It evaluates one
// summarization chain against a dataset, compares two chains head-to-head,
// or runs both chains once on an ad-hoc input.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "abeval:", err)
		os.Exit(1)
	}
}
