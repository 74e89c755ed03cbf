package main

import (
	"fmt"
	"os"

	"uvote-cli/internal/cli"
	apperrors "uvote-cli/pkg/errors"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Workflow failures carry a user-facing message; anything else
		// prints as-is.
		if appErr, ok := apperrors.AsAppError(err); ok {
			fmt.Fprintln(os.Stderr, appErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
