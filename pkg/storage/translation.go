package storage

import "context"

// TranslationStorage persists machine translations keyed by canonical locale
// and source text. It satisfies translation.Store.
type TranslationStorage interface {
	// GetTranslations returns stored translations for the given sources.
	// Sources without a row are absent from the result.
	GetTranslations(ctx context.Context, locale string, sources []string) (map[string]string, error)
	// SetTranslations upserts source to text rows for locale.
	SetTranslations(ctx context.Context, locale string, entries map[string]string) error
}
