package domain

import "time"

// TranslationEntry is one cached translation of a source string into a locale.
type TranslationEntry struct {
	Locale    string    `json:"locale"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
}
