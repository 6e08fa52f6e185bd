// ABOUTME: JSON document persistence shared by the state stores
// ABOUTME: Distinguishes absent, corrupt, and present documents on read

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// docStatus classifies the outcome of reading a state document. Callers
// outside this package only ever see present vs not-present; corrupt
// documents behave exactly like absent ones.
type docStatus int

const (
	docAbsent docStatus = iota
	docCorrupt
	docPresent
)

// readDoc loads the JSON document at path into v.
func readDoc(path string, v any) docStatus {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return docAbsent
	}
	if err != nil {
		return docCorrupt
	}
	if err := json.Unmarshal(data, v); err != nil {
		return docCorrupt
	}
	return docPresent
}

// writeDoc atomically replaces the document at path. The temp file lands
// in the same directory so the rename stays on one filesystem.
func writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing state document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing state document: %w", err)
	}
	return nil
}

// clearDoc removes the document at path. Removing a document that does
// not exist is success.
func clearDoc(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing state document: %w", err)
	}
	return nil
}
