// cmd/evaldash/main.go
package main

import (
	cmd "github.com/mwiater/evaldash/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the evaldash CLI by delegating to the cobra root command.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
