// Package translation caches machine translations of UI strings per locale
// with batch lookup and batch store semantics.
//
// There is no package-level cache. Callers construct a Store (a bounded
// MemoryStore owned by the caller, or the Postgres store) and pass it to New.
package translation

import (
	"context"
	"fmt"
	"portal/pkg/serrors"
	"strings"

	"golang.org/x/text/language"
)

// Store persists translations keyed by locale and source text.
//
//go:generate mockgen -package mocktranslation -source=translation.go -destination=mock/mocktranslation.go Store
type Store interface {
	// GetTranslations returns the cached text for each source that has an
	// entry. Sources without an entry are absent from the map.
	GetTranslations(ctx context.Context, locale string, sources []string) (map[string]string, error)
	// SetTranslations stores or replaces the given source to text entries.
	SetTranslations(ctx context.Context, locale string, entries map[string]string) error
}

// LookupResult is the outcome of a batch lookup.
type LookupResult struct {
	// Locale is the canonical BCP 47 tag the lookup ran against.
	Locale string
	// Hits maps source text to its cached translation.
	Hits map[string]string
	// Misses lists sources without a cached translation, in input order.
	Misses []string
}

// Cache validates and canonicalizes requests before they reach a Store.
type Cache struct {
	store Store
}

// New returns a Cache backed by store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// CanonicalLocale parses a BCP 47 tag and returns its canonical form,
// e.g. "es-mx" becomes "es-MX".
func CanonicalLocale(locale string) (string, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", serrors.With(serrors.ErrBadRequest, "locale is required")
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrBadRequest, err, "invalid locale %q", locale)
	}

	return tag.String(), nil
}

// Lookup fetches cached translations for sources. Empty and duplicate sources
// are ignored.
func (c *Cache) Lookup(ctx context.Context, locale string, sources []string) (*LookupResult, error) {
	canonical, err := CanonicalLocale(locale)
	if err != nil {
		return nil, err
	}

	unique := dedupe(sources)
	res := &LookupResult{Locale: canonical, Hits: map[string]string{}, Misses: []string{}}
	if len(unique) == 0 {
		return res, nil
	}

	found, err := c.store.GetTranslations(ctx, canonical, unique)
	if err != nil {
		return nil, fmt.Errorf("could not get translations: %w", err)
	}

	for _, src := range unique {
		if text, ok := found[src]; ok {
			res.Hits[src] = text

			continue
		}
		res.Misses = append(res.Misses, src)
	}

	return res, nil
}

// Store saves translations for locale. Entries with an empty source or text
// are rejected.
func (c *Cache) Store(ctx context.Context, locale string, entries map[string]string) error {
	canonical, err := CanonicalLocale(locale)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	for src, text := range entries {
		if src == "" || text == "" {
			return serrors.With(serrors.ErrBadRequest, "translation entries need a source and a text")
		}
	}

	if err := c.store.SetTranslations(ctx, canonical, entries); err != nil {
		return fmt.Errorf("could not set translations: %w", err)
	}

	return nil
}

func dedupe(sources []string) []string {
	seen := make(map[string]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	for _, src := range sources {
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}

	return out
}
