// internal/commands/list_commands.go
package evaldash

import (
	"strings"

	"github.com/spf13/cobra"
)

// commandsCmd implements 'commands', which prints the available commands and
// subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		commandData := collectCommandData(cmd.Root(), "", "")
		filtered := make([]CommandInfo, 0, len(commandData))
		for _, data := range commandData {
			if strings.Contains(data.Path, "completion") || strings.Contains(data.Path, "help") {
				continue
			}
			filtered = append(filtered, data)
		}
		ListCommands(cmd.OutOrStdout(), filtered)
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

// collectCommandData walks the command tree and returns a flattened slice of
// path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []CommandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	allData := []CommandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, subCmd := range cmd.Commands() {
		allData = append(allData, collectCommandData(subCmd, fullPath, indent+"  ")...)
	}
	return allData
}
