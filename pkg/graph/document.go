package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/opencourtlab/guideway/pkg/domain"
)

// Document is the raw, externally supplied description of a questionnaire:
// the shape graph authors write in YAML or JSON. It is inert data; Build
// turns it into a validated Graph.
type Document struct {
	Start string                 `json:"start" yaml:"start"`
	Nodes map[string]domain.Node `json:"nodes" yaml:"nodes"`

	// Edges is optional; a document may express all transitions through
	// per-node options instead.
	Edges []domain.Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Decode converts a generic map (as produced by yaml or json unmarshaling)
// into a Document. Node ids missing inside the map values are filled in from
// the map keys, so authors never have to repeat themselves.
func Decode(raw map[string]any) (Document, error) {
	var doc Document

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "yaml",
		Result:  &doc,
	})
	if err != nil {
		return Document{}, fmt.Errorf("failed to build document decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return Document{}, fmt.Errorf("failed to decode graph document: %w", err)
	}

	for id, node := range doc.Nodes {
		if node.ID == "" {
			node.ID = id
			doc.Nodes[id] = node
		} else if node.ID != id {
			return Document{}, fmt.Errorf("node keyed %q declares conflicting id %q", id, node.ID)
		}
	}

	return doc, nil
}

// LoadFile reads a graph document from a YAML (.yaml/.yml) or JSON (.json)
// file.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read graph document: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return Document{}, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Document{}, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	}

	return Decode(raw)
}
