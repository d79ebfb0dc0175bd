package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmallek/lectern/internal/storage"
)

// Preference keys persisted in the settings table. Config holds defaults;
// a stored value overrides it.
var prefKeys = map[string]string{
	"theme": "reader color theme (auto, dark, light)",
	"font":  "reader font family",
}

// Execute implements the go-flags Commander interface for PrefsCommand.
// Without --set/--get it lists all preferences.
func (c *PrefsCommand) Execute(args []string) error {
	store, db, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs the prefs action against a provided store (for testing).
func (c *PrefsCommand) executeWithStore(store storage.Store) error {
	ctx := context.Background()

	if c.Set != "" {
		key, value, ok := strings.Cut(c.Set, "=")
		if !ok || key == "" {
			return fmt.Errorf("--set requires key=value")
		}
		if _, known := prefKeys[key]; !known {
			return fmt.Errorf("unknown preference key %q (known: %s)", key, strings.Join(knownPrefKeys(), ", "))
		}
		if err := store.SetSetting(ctx, key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	}

	if c.Get != "" {
		if _, known := prefKeys[c.Get]; !known {
			return fmt.Errorf("unknown preference key %q (known: %s)", c.Get, strings.Join(knownPrefKeys(), ", "))
		}
		value, err := store.GetSetting(ctx, c.Get)
		if err != nil {
			return err
		}
		if value == "" {
			value = c.defaultFor(c.Get)
		}
		fmt.Println(value)
		return nil
	}

	return c.list(ctx, store)
}

func (c *PrefsCommand) list(ctx context.Context, store storage.Store) error {
	values := make(map[string]string, len(prefKeys))
	for key := range prefKeys {
		value, err := store.GetSetting(ctx, key)
		if err != nil {
			return err
		}
		if value == "" {
			value = c.defaultFor(key)
		}
		values[key] = value
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}

	for _, key := range knownPrefKeys() {
		fmt.Printf("%-8s %s  (%s)\n", key, values[key], prefKeys[key])
	}
	return nil
}

// defaultFor returns the config-level default for a preference key.
func (c *PrefsCommand) defaultFor(key string) string {
	cfg := loadConfig(c.globals)
	switch key {
	case "theme":
		return cfg.Reader.Theme
	case "font":
		return cfg.Reader.FontFamily
	default:
		return ""
	}
}

// knownPrefKeys returns preference keys in stable display order.
func knownPrefKeys() []string {
	return []string{"font", "theme"}
}
