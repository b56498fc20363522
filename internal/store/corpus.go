// Package store reads and writes the corpus document and the read-only
// speaker and category config files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rostrumlab/rostrum/internal/model"
)

// LoadCorpus reads the corpus document. A missing file yields a fresh empty
// corpus; a malformed file is an error, never silently replaced.
func LoadCorpus(path string) (*model.Corpus, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.NewCorpus(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	var corpus model.Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	if corpus.Transcripts == nil {
		corpus.Transcripts = []model.Transcript{}
	}
	if corpus.Contradictions == nil {
		corpus.Contradictions = map[string][]model.Contradiction{}
	}
	if corpus.Schema.Version == "" {
		corpus.Schema = model.NewCorpus().Schema
	}

	return &corpus, nil
}

// SaveCorpus writes the corpus atomically: serialize to a temp file in the
// same directory, then rename into place. A failure at any point leaves the
// existing document untouched.
func SaveCorpus(path string, corpus *model.Corpus) error {
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp corpus: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp corpus: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace corpus: %w", err)
	}

	return nil
}
