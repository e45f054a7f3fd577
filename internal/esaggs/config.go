// Package esaggs models the aggregation-request fragments that layer
// columns translate into.
package esaggs

import (
	"encoding/json"
	"fmt"
	"io"
)

// Schema names the role an aggregation plays in the response table.
type Schema string

const (
	SchemaSegment Schema = "segment"
	SchemaMetric  Schema = "metric"
)

// KeyOrder is the orderBy value that sorts terms buckets by their key.
const KeyOrder = "_key"

// Config is one aggregation-request fragment.
type Config struct {
	ID      string                 `json:"id"`
	Enabled bool                   `json:"enabled"`
	Type    string                 `json:"type"`
	Schema  Schema                 `json:"schema"`
	Params  map[string]interface{} `json:"params"`
}

// MarshalConfigs writes the configs as an indented JSON array.
func MarshalConfigs(w io.Writer, configs []Config) error {
	if configs == nil {
		configs = []Config{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(configs); err != nil {
		return fmt.Errorf("encode aggregation configs: %w", err)
	}
	return nil
}
