// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Dave Marshalonis
// See LICENSE file in the project root for full license text.

package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status is the outcome of a step or a whole update run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult is one executed (or skipped) pipeline step.
type StepResult struct {
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Record summarizes one update run. The failing step, if any, is the
// single StatusFailed entry; everything after it is StatusSkipped.
type Record struct {
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Services   []string     `json:"services"`
	Tag        string       `json:"tag,omitempty"`
	Status     Status       `json:"status"`
	Steps      []StepResult `json:"steps"`
}

// FailedStep returns the failing step, if the run had one.
func (r *Record) FailedStep() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s, true
		}
	}
	return StepResult{}, false
}

// RecordStore persists the last update record under a base directory,
// conventionally .modernizer at the project root.
type RecordStore struct {
	baseDir string
}

func NewRecordStore(baseDir string) *RecordStore {
	return &RecordStore{baseDir: baseDir}
}

func (s *RecordStore) path() string {
	return filepath.Join(s.baseDir, "last-update.json")
}

// Read loads the last update record. A missing file is clean state,
// not an error.
func (s *RecordStore) Read() (*Record, error) {
	f, err := os.Open(s.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening last update record: %w", err)
	}
	defer func() { _ = f.Close() }()

	var rec Record
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding last update record: %w", err)
	}
	return &rec, nil
}

// Write saves the record, creating the base directory on first use.
func (s *RecordStore) Write(rec Record) (err error) {
	path := s.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// Reset clears the record directory.
func (s *RecordStore) Reset() error {
	return os.RemoveAll(s.baseDir)
}
