// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
	"sort"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Data File:       %s\n", cfg.DataFilePath())
	fmt.Fprintf(out, "  Listen Address:  %s\n", cfg.Addr())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Title Width:     %d\n", cfg.TitleLabelWidth())
	fmt.Fprintf(out, "  Max Upload:      %d MiB\n", cfg.MaxUploadBytes()>>20)

	if len(cfg.Kinds) == 0 {
		return
	}
	kinds := make([]string, 0, len(cfg.Kinds))
	for kind := range cfg.Kinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	fmt.Fprintln(out, "  Declared kinds:")
	for _, kind := range kinds {
		fmt.Fprintf(out, "    %-20s %s\n", kind, cfg.Kinds[kind])
	}
}
