// internal/commands/root_test.go
package evaldash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mwiater/evaldash/internal/logging"
)

const resultsDoc = `[
  {"metadata": {"timestamp": "2025-02-01T08:00:00", "evaluations_run": ["decision_accuracy", "scope"]},
   "input_data": {"jid": "bmj", "aid": "a1", "aligned": true, "gold_aligned": true, "title": "First"},
   "evaluation_results": {"decision_accuracy": true, "scope": {"Eval_Status": "fail", "reason": "off topic"}},
   "source_file": "run.json"},
  {"metadata": {"timestamp": "2025-02-02T08:00:00", "evaluations_run": ["decision_accuracy"]},
   "input_data": {"jid": "nejm", "aid": "a2", "aligned": false, "gold_aligned": true, "title": "Second"},
   "evaluation_results": {"decision_accuracy": false},
   "source_file": "run.json"}
]`

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// runRoot executes the root command with a temporary config and log file.
func runRoot(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	configPath := writeTempFile(t, "config.json", config)
	logPath := filepath.Join(t.TempDir(), "evaldash.log")

	resetFlags(rootCmd)
	prevCfgFile := cfgFile
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
		rootCmd.SetArgs([]string{})
		_ = logging.Close()
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", configPath, "--logFile", logPath}, args...))
	_, err := rootCmd.ExecuteC()
	return buf.String(), err
}

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	out, err := runRoot(t, "{}", "nonexistent")
	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"evaldash\""
	if !strings.Contains(out, expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, out)
	}
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "evaldash.log")
	configPath := writeTempFile(t, "config.json", `{"dataFile": "from-config.json", "titleWidth": 20}`)

	prevCfgFile := cfgFile
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	// Flags are reset before the config path is set: --config is bound to cfgFile.
	resetFlags(rootCmd)
	if err := rootCmd.PersistentFlags().Set("config", configPath); err != nil {
		t.Fatalf("set config flag: %v", err)
	}
	if cfgFile != configPath {
		t.Fatalf("expected the config flag to set cfgFile, got %s", cfgFile)
	}
	viper.SetConfigFile(configPath)
	_ = rootCmd.PersistentFlags().Set("data", "from-flag.json")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s", configPath)
	}
	if currentConfig.DataFilePath() != "from-flag.json" {
		t.Fatalf("expected the data flag to override the config file, got %s", currentConfig.DataFilePath())
	}
	if currentConfig.TitleLabelWidth() != 20 {
		t.Fatalf("expected titleWidth from the config file, got %d", currentConfig.TitleLabelWidth())
	}
	if currentConfig.LogFilePath() != logPath {
		t.Fatalf("expected logFile flag, got %s", currentConfig.LogFilePath())
	}
}

func TestPersistentPreRunERejectsUnknownShape(t *testing.T) {
	_, err := runRoot(t, `{"kinds": {"scope": "bogus"}}`, "summary")
	if err == nil || !strings.Contains(err.Error(), "kinds.scope") {
		t.Fatalf("expected a kinds.scope configuration error, got %v", err)
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	out, err := runRoot(t, `{"dataFile": "results.json", "kinds": {"scope": "status"}}`, "config", "show")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "Config file: ") {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Data File:       results.json") {
		t.Fatalf("expected data file in output, got %s", out)
	}
	if !strings.Contains(out, "scope") || !strings.Contains(out, "status") {
		t.Fatalf("expected declared kinds in output, got %s", out)
	}
}

func TestShowConfigPretty(t *testing.T) {
	out, err := runRoot(t, `{"port": 9000}`, "config", "show", "--pretty")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "Port") || !strings.Contains(out, "9000") {
		t.Fatalf("expected pretty-printed config, got %s", out)
	}
}

func TestListCommands(t *testing.T) {
	out, err := runRoot(t, "{}", "commands")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	for _, want := range []string{"Commands and Subcommands:", "evaldash serve", "evaldash config show", "evaldash flatten"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %s", want, out)
		}
	}
	if strings.Contains(out, "completion") {
		t.Errorf("completion commands should be hidden, got %s", out)
	}
}

func TestValidateConfig(t *testing.T) {
	out, err := runRoot(t, `{"kinds": {"scope": "status"}}`, "config", "validate")
	if err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(out, "is valid (1 declared kinds)") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestValidateConfigMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.json")
	_, err := runRoot(t, "{}", "--config", missing, "config", "validate")
	if err == nil || !strings.Contains(err.Error(), "no configuration file found") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}
