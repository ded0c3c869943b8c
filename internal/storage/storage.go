package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/keiba-flat/internal/race"
)

// DefaultRacesFile is used when no race file name is given.
const DefaultRacesFile = "races.json"

// Storage handles race files under a data directory.
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}
	if dataDir == "" {
		dataDir = "."
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, p[2:]), nil
}

// Path resolves a file name. Absolute paths and "~/" paths are used as given;
// anything else is relative to the data directory.
func (s *Storage) Path(name string) string {
	if name == "" {
		name = DefaultRacesFile
	}
	if strings.HasPrefix(name, "~/") {
		if expanded, err := expandHome(name); err == nil {
			return expanded
		}
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// SaveRaces writes races as an indented JSON array. The file is replaced atomically.
func (s *Storage) SaveRaces(name string, races []race.RawRace) error {
	path := s.Path(name)

	if races == nil {
		races = []race.RawRace{}
	}
	data, err := json.MarshalIndent(races, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding races: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating race directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing races: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing races: %w", err)
	}

	return nil
}

// LoadRaces reads a race file. Races that do not have the expected shape are returned
// as mismatches; the error is reserved for unreadable files and non-array content.
func (s *Storage) LoadRaces(name string) ([]race.Indexed, []*race.StructuralMismatch, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, nil, fmt.Errorf("reading races: %w", err)
	}
	defer f.Close()

	return race.Decode(f)
}
