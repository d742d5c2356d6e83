package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"auxesis/internal/model"
	"auxesis/internal/storage"
)

const (
	trialsDir      = "trials"
	trialIndexFile = "trial_index.json"
)

// TrialHistory tracks one summarized metric across generations.
type TrialHistory struct {
	Metric      string          `json:"metric"`
	Generations []VectorSummary `json:"generations"`
}

// TrialIndexEntry is one line of the append-only root index.
type TrialIndexEntry struct {
	TrialID     string `json:"trial_id"`
	CreatedAt   string `json:"created_at"`
	Dir         string `json:"dir"`
	Genomes     int    `json:"genomes"`
	Generations int    `json:"generations"`
}

// WriteTrialArtifacts lays out one trial's directory under baseDir with
// config.json, complexity_history.json, distance_history.json and
// summary.json, then appends the trial to the root index. Returns the trial
// directory.
func WriteTrialArtifacts(baseDir string, rec model.TrialRecord, configLines []string, complexity, distance TrialHistory) (string, error) {
	if rec.TrialID == "" {
		return "", errors.New("trial id is required")
	}
	dir := filepath.Join(baseDir, trialsDir, rec.TrialID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	files := []struct {
		name    string
		payload any
	}{
		{"config.json", configLines},
		{"complexity_history.json", complexity},
		{"distance_history.json", distance},
		{"summary.json", rec},
	}
	for _, file := range files {
		if err := writeJSON(filepath.Join(dir, file.name), file.payload); err != nil {
			return "", fmt.Errorf("write %s: %w", file.name, err)
		}
	}

	err := AppendTrialIndex(baseDir, TrialIndexEntry{
		TrialID:     rec.TrialID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Dir:         dir,
		Genomes:     rec.Genomes,
		Generations: rec.Generations,
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}

// ReadTrialSummary loads one trial's summary record.
func ReadTrialSummary(baseDir, trialID string) (model.TrialRecord, bool, error) {
	if trialID == "" {
		return model.TrialRecord{}, false, errors.New("trial id is required")
	}
	data, err := os.ReadFile(filepath.Join(baseDir, trialsDir, trialID, "summary.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return model.TrialRecord{}, false, nil
		}
		return model.TrialRecord{}, false, err
	}
	rec, err := storage.DecodeTrial(data)
	if err != nil {
		return model.TrialRecord{}, false, err
	}
	return rec, true, nil
}

// AppendTrialIndex adds one entry to the root index, one JSON object per
// line so the file stays append-only.
func AppendTrialIndex(baseDir string, entry TrialIndexEntry) error {
	if entry.TrialID == "" {
		return errors.New("trial id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(filepath.Join(baseDir, trialIndexFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// ListTrialIndex reads the root index in append order. A missing index reads
// as empty.
func ListTrialIndex(baseDir string) ([]TrialIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, trialIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []TrialIndexEntry{}, nil
		}
		return nil, err
	}

	entries := []TrialIndexEntry{}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry TrialIndexEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("trial index: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func writeJSON(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
