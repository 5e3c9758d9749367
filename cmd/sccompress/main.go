// Copyright (c) The sccompress Authors

package main

import "github.com/scmods/sccompress/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the sccompress cli
func main() {
	cmd.Run(version, commit, date)
}
