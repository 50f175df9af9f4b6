package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// DecodeScholarships parses a JSON array of untyped scholarship records.
// Numbers are kept as json.Number so numeric ids keep their exact text.
func DecodeScholarships(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode scholarships: %w", err)
	}
	return raw, nil
}

func decodeRecord(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("decode scholarship: %w", err)
	}
	return record, nil
}

// DecodeNarratives parses a JSON array of reference narratives.
func DecodeNarratives(data []byte) ([]Narrative, error) {
	var narratives []Narrative
	if err := json.Unmarshal(data, &narratives); err != nil {
		return nil, fmt.Errorf("decode narratives: %w", err)
	}
	return narratives, nil
}

// LoadFile builds a Snapshot from local JSON files. A missing or unreadable
// narratives file is not fatal: the catalog then simply has no stylistic
// references.
func LoadFile(scholarshipsPath, narrativesPath string, logger *slog.Logger) (*Snapshot, error) {
	data, err := os.ReadFile(scholarshipsPath)
	if err != nil {
		return nil, fmt.Errorf("read scholarships: %w", err)
	}
	raw, err := DecodeScholarships(data)
	if err != nil {
		return nil, err
	}

	var narratives []Narrative
	if narrativesPath != "" {
		narratives, err = loadNarrativesFile(narrativesPath)
		if err != nil {
			logger.Warn("narratives unavailable, continuing without them", "path", narrativesPath, "error", err)
			narratives = nil
		}
	}
	return NewSnapshot(raw, narratives)
}

func loadNarrativesFile(path string) ([]Narrative, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("narratives file not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read narratives: %w", err)
	}
	return DecodeNarratives(data)
}
