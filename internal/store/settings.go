package store

import "errors"

const settingsKey = "settings"

// Settings are user preferences persisted across runs.
type Settings struct {
	DefaultList string `json:"default_list"`
	CommentSort string `json:"comment_sort"`
	ShowDomains bool   `json:"show_domains"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		DefaultList: "top",
		CommentSort: "nested",
		ShowDomains: true,
	}
}

// Settings loads the saved preferences, falling back to defaults when none
// were saved yet.
func (s *Store) Settings() (Settings, error) {
	var out Settings
	err := s.GetJSON(settingsKey, &out)
	if errors.Is(err, ErrNoKey) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return DefaultSettings(), err
	}
	return out, nil
}

// SaveSettings persists the preferences.
func (s *Store) SaveSettings(v Settings) error {
	return s.PutJSON(settingsKey, v)
}
