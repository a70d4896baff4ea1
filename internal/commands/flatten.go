// internal/commands/flatten.go
package evaldash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mwiater/evaldash/internal/dataset"
	"github.com/mwiater/evaldash/internal/evaluation"
)

var (
	flattenFormat string
	flattenOutput string
)

// flattenCmd prints the flattened table of a results file.
var flattenCmd = &cobra.Command{
	Use:   "flatten [results.json]",
	Short: "Print flattened rows as JSON, YAML or a pretty dump",
	Long: `Flatten a results file (the configured data file when no argument is given)
and print one row per record. Rows list every column in table order; columns a
record does not have are null.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader(GetConfig())
		if err != nil {
			return err
		}

		var data *dataset.Dataset
		if len(args) == 1 {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "read %s", args[0])
			}
			data, err = loader.LoadBytes("file:"+args[0], raw)
			if err != nil {
				return err
			}
		} else if data, err = loader.Load(nil); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flattenOutput != "" {
			f, err := os.Create(flattenOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", flattenOutput)
			}
			defer f.Close()
			out = f
		}
		return writeRows(out, flattenFormat, data.Table)
	},
}

func init() {
	flattenCmd.Flags().StringVarP(&flattenFormat, "format", "f", "json", "output format: json, yaml or pp")
	flattenCmd.Flags().StringVarP(&flattenOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(flattenCmd)
}

func writeRows(out io.Writer, format string, table *evaluation.Table) error {
	rows := make([]orderedRow, 0, table.Len())
	for _, row := range table.Rows {
		rows = append(rows, orderedRow{columns: table.Columns, row: row})
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rows), "encode json")
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	case "pp":
		_, err := pp.Fprintln(out, table.Rows)
		return err
	default:
		return fmt.Errorf("unknown format %q (expected json, yaml or pp)", format)
	}
}

// orderedRow serializes a row with its keys in table column order.
type orderedRow struct {
	columns []string
	row     evaluation.Row
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.row[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r orderedRow) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range r.columns {
		var val yaml.Node
		if err := val.Encode(r.row[col]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col}, &val)
	}
	return node, nil
}
