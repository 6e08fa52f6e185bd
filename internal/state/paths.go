// ABOUTME: XDG directory resolution for console config, state, and data
// ABOUTME: Provides default paths and creates directories with owner-only permissions

package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths holds the directories the console reads and writes.
type Paths struct {
	Config string // config files (console.yaml)
	State  string // mutable state (active org/role, cookie jar)
	Data   string // durable data (operation journal)
}

// DefaultPaths resolves the standard XDG locations for the console.
func DefaultPaths() Paths {
	return Paths{
		Config: filepath.Join(xdg.ConfigHome, "sigil"),
		State:  filepath.Join(xdg.StateHome, "sigil"),
		Data:   filepath.Join(xdg.DataHome, "sigil"),
	}
}

// Ensure creates the state and data directories if they do not exist.
// State holds credentials, so everything is owner-only.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.State, p.Data} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// ConfigFile returns the default console config file path.
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Config, "console.yaml")
}

// CookieFile returns the persisted cookie jar path.
func (p Paths) CookieFile() string {
	return filepath.Join(p.State, "cookies.json")
}

// JournalDB returns the operation journal database path.
func (p Paths) JournalDB() string {
	return filepath.Join(p.Data, "console.db")
}
