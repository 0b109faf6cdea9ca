// Package record persists local deployment records, one JSON file per
// instance. The record is the only durable local state of a deployment: it
// is written once after the provider confirms instance creation, read by
// status and teardown, and removed on explicit teardown.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Record is the durable deployment record for one instance.
type Record struct {
	InstanceID   int       `json:"instance_id"`
	InstanceIP   string    `json:"instance_ip"`
	InstanceType string    `json:"instance_type"`
	Region       string    `json:"region"`
	Label        string    `json:"label"`
	RootPassword string    `json:"root_password"`
	ModelID      string    `json:"model_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store reads and writes records under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily
// on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the conventional record directory for the current user.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ai-quickstart"
	}
	return filepath.Join(home, ".ai-quickstart", "deployments")
}

func (s *Store) path(instanceID int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.json", instanceID))
}

// Save writes the record keyed by its instance id. Records contain the root
// credential, so files are written 0600.
func (s *Store) Save(rec *Record) error {
	if rec.InstanceID == 0 {
		return fmt.Errorf("record has no instance id")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := os.WriteFile(s.path(rec.InstanceID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Load reads the record for instanceID. A missing record returns fs.ErrNotExist.
func (s *Store) Load(instanceID int) (*Record, error) {
	data, err := os.ReadFile(s.path(instanceID))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record %d: %w", instanceID, err)
	}
	return &rec, nil
}

// List returns all records in the store, skipping unreadable files.
func (s *Store) List() ([]*Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read record directory: %w", err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Remove deletes the record for instanceID. Removing an absent record is
// not an error.
func (s *Store) Remove(instanceID int) error {
	err := os.Remove(s.path(instanceID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove record: %w", err)
	}
	return nil
}
