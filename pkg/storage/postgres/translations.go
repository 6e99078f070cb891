package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const (
	translationsTable = "translations"
)

func (p *PgSQL) GetTranslations(ctx context.Context, locale string, sources []string) (map[string]string, error) {
	out := make(map[string]string, len(sources))
	if len(sources) == 0 {
		return out, nil
	}

	var rows []PgTranslation
	if err := p.Builder.From(translationsTable).
		Select("locale", "source", "text").
		Where(
			goqu.I("locale").Eq(locale),
			goqu.I("source").In(sources),
		).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch translations from pg: %w", err)
	}

	for _, row := range rows {
		out[row.Source] = row.Text
	}

	return out, nil
}

// SetTranslations upserts all entries in a single statement.
func (p *PgSQL) SetTranslations(ctx context.Context, locale string, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]PgTranslation, 0, len(entries))
	for source, text := range entries {
		rows = append(rows, PgTranslation{Locale: locale, Source: source, Text: text})
	}

	_, err := p.Builder.Insert(translationsTable).
		Rows(rows).
		OnConflict(goqu.DoUpdate("locale, source", goqu.Record{
			"text":       goqu.L("EXCLUDED.text"),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not store translations into pg: %w", err)
	}

	return nil
}
