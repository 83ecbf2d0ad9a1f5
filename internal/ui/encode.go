package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formats lists the document encodings Encode accepts besides "tree".
var Formats = []string{"yaml", "json", "toml"}

// Encode writes doc to w as yaml, json or toml.
func Encode(w io.Writer, doc Document, format string) error {
	var buf bytes.Buffer
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
	case "json":
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	case "toml":
		b, err := toml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal toml: %w", err)
		}
		buf.Write(b)
	default:
		return fmt.Errorf("invalid output format '%s' (valid: tree, yaml, json, toml)", format)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
