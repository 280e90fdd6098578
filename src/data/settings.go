package data

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Settings stored in the database override the environment. They are read
// once at startup into a process-wide snapshot.
var (
	settingsMu    sync.RWMutex
	settingsCache map[string]string
)

// LoadSettings replaces the snapshot with the store's settings table. Names
// are matched case-insensitively and blank values are dropped so the
// environment fallback still applies.
func LoadSettings(ctx context.Context, store SettingsStore) error {
	rows, err := store.ListSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	next := make(map[string]string, len(rows))
	for _, s := range rows {
		if v := strings.TrimSpace(s.Value); v != "" {
			next[settingKey(s.Name)] = v
		}
	}

	settingsMu.Lock()
	settingsCache = next
	settingsMu.Unlock()
	return nil
}

// GetSetting returns the stored value for name, or "" when unset.
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[settingKey(name)]
}

func settingKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }
