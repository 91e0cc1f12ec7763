// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command asynchttp sends HTTP requests through an asynchttp.Client
// from the terminal. Run "asynchttp help" for usage.
package main

import (
	"os"

	"github.com/asynchttp/asynchttp/internal/cli"
)

// Main is the entry point for the application. It's exported to make
// it testable.
func Main() int {
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
