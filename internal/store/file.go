package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/comp-forecast/internal/records"
)

// FileStore reads job documents from a JSON or YAML file. The file holds either a list of jobs
// shared by every user, an object with a "jobs" list, or an object keyed by user id.
type FileStore struct {
	path string
}

// NewFileStore creates a store over path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Jobs reads the file on every call so edits are picked up without a restart.
func (s *FileStore) Jobs(ctx context.Context, userID string) ([]records.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := ReadDocument(s.path)
	if err != nil {
		return nil, err
	}

	var raw any
	switch typed := doc.(type) {
	case []any:
		raw = typed
	case map[string]any:
		if list, ok := typed[userID]; ok && userID != "" {
			raw = list
		} else if list, ok := typed["jobs"]; ok {
			raw = list
		}
	case nil:
	default:
		return nil, fmt.Errorf("unexpected document in %s: %T", s.path, doc)
	}

	jobs, err := records.DecodeAny(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode jobs from %s: %w", s.path, err)
	}
	return jobs, nil
}

// ReadDocument loads a loosely typed JSON or YAML document. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON.
func ReadDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return doc, nil
}
