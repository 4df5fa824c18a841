// Command aircursor drives the desktop pointer with hand gestures seen by a
// webcam.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "aircursor:", err)
		os.Exit(1)
	}
}
