// ABOUTME: Loader for TOML app definition files describing MCP servers
// ABOUTME: Expands environment variables and validates before conversion to wire form

package appdef

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/sigilworks/sigil-console/internal/api"
)

// Definition is one app as declared in a TOML file.
//
// The transport decides which locator is required: stdio apps name a
// command to launch, http apps name a URL to proxy. Declaring both,
// or neither, is a validation error.
type Definition struct {
	Name        string            `toml:"name" validate:"required"`
	Description string            `toml:"description"`
	Transport   string            `toml:"transport" validate:"required,oneof=stdio http"`
	Command     string            `toml:"command" validate:"required_if=Transport stdio,excluded_if=Transport http"`
	Args        []string          `toml:"args"`
	URL         string            `toml:"url" validate:"required_if=Transport http,excluded_if=Transport stdio,omitempty,url"`
	Env         map[string]string `toml:"env"`
	MaxSessions int               `toml:"max_sessions" validate:"gte=0"`
}

var validate = validator.New()

// Load reads a single app definition from path, expanding ${VAR}
// references from the environment before parsing.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading app definition: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var def Definition
	if _, err := toml.Decode(expanded, &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if err := validate.Struct(&def); err != nil {
		return nil, fmt.Errorf("validating %s: %w", filepath.Base(path), err)
	}

	return &def, nil
}

// LoadDir loads every .toml file directly under dir, sorted by app
// name. Two files declaring the same app name is an error.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading app definition dir: %w", err)
	}

	seen := make(map[string]string) // app name -> file that declared it
	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		def, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("app %q defined in both %s and %s", def.Name, prev, entry.Name())
		}
		seen[def.Name] = entry.Name()
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

// AppConfig converts the definition to the gateway's wire form.
func (d *Definition) AppConfig() api.AppConfig {
	return api.AppConfig{
		Name:        d.Name,
		Description: d.Description,
		Transport:   d.Transport,
		Command:     d.Command,
		Args:        d.Args,
		URL:         d.URL,
		Env:         d.Env,
		MaxSessions: d.MaxSessions,
	}
}
