package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"portal/pkg/domain"
	"portal/pkg/storage"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	documentsTable = "documents"
)

func (p *PgSQL) StoreDocuments(ctx context.Context, documents ...domain.Document) ([]domain.Document, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	pgDocuments, err := domainDocumentsToPg(documents)
	if err != nil {
		return nil, err
	}

	var result []PgDocument
	if err := p.Builder.Insert(documentsTable).
		Rows(pgDocuments).
		Returning(&PgDocument{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store documents into pg: %w", err)
	}

	return pgDocumentsToDomain(result)
}

// updateRecord builds the SET clause shared by the update methods.
func updateRecord(updates storage.DocumentUpdates) (goqu.Record, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"status":     string(updates.Status),
	}
	if !updates.SkipAttempt {
		rec["attempts"] = goqu.L("attempts + 1")
	}
	if updates.Status == domain.DocumentStatusFailed && updates.MaxAttempts > 0 {
		// stay pending until the attempt budget is exhausted
		rec["status"] = goqu.Case().
			When(goqu.L("attempts + 1 >= ?", updates.MaxAttempts), string(domain.DocumentStatusFailed)).
			Else(goqu.I("status"))
	}
	if updates.Object != nil {
		b, err := json.Marshal(updates.Object)
		if err != nil {
			return nil, fmt.Errorf("could not marshal object: %w", err)
		}

		rec["object"] = string(b)
	}
	if updates.LastError != nil {
		if *updates.LastError == "" {
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	return rec, nil
}

// UpdatePendingDocumentsByURL updates all pending documents for the given URL.
func (p *PgSQL) UpdatePendingDocumentsByURL(ctx context.Context, URL string, updates storage.DocumentUpdates) error {
	rec, err := updateRecord(updates)
	if err != nil {
		return err
	}

	_, err = p.Builder.Update(documentsTable).
		Set(rec).Where(
		goqu.I("url").Eq(URL),
		goqu.I("status").Eq(string(domain.DocumentStatusPending)),
		goqu.I("deleted_at").IsNull(),
	).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not update pending documents by url in pg: %w", err)
	}

	return nil
}

func (p *PgSQL) PendingDocumentCountByURL(ctx context.Context, URL string) (int64, error) {
	count, err := p.Builder.From(documentsTable).
		Where(
			goqu.I("url").Eq(URL),
			goqu.I("status").Eq(string(domain.DocumentStatusPending)),
			goqu.I("deleted_at").IsNull(),
		).CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count pending documents in pg: %w", err)
	}

	return count, nil
}

func (p *PgSQL) UpdateDocumentByID(ctx context.Context,
	id domain.DocumentID,
	updates storage.DocumentUpdates) (*domain.Document, error) {
	rec, err := updateRecord(updates)
	if err != nil {
		return nil, err
	}

	var row PgDocument
	found, err := p.Builder.Update(documentsTable).
		Set(rec).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgDocument{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update document in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// DeleteDocument performs a soft delete by setting deleted_at timestamp
// for a given document id and user, returning the deleted record.
func (p *PgSQL) DeleteDocument(ctx context.Context,
	userID domain.UserID,
	id domain.DocumentID) (*domain.Document, error) {
	var row PgDocument
	found, err := p.Builder.Update(documentsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).Where(
		goqu.I("id").Eq(uuid.UUID(id)),
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	).Returning(&PgDocument{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete document in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// UserDocuments returns a page of documents for a user ordered by
// created_at DESC, id DESC.
func (p *PgSQL) UserDocuments(ctx context.Context,
	userID domain.UserID,
	status domain.DocumentStatus,
	cursor time.Time,
	limit uint) (storage.UserDocuments, error) {
	w := []goqu.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	}
	if status != "" {
		w = append(w, goqu.I("status").Eq(string(status)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(documentsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgDocument
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserDocuments{}, fmt.Errorf("could not fetch user documents from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		nextCursor = &rows[len(rows)-1].CreatedAt
	}

	documents, err := pgDocumentsToDomain(rows)
	if err != nil {
		return storage.UserDocuments{}, err
	}

	return storage.UserDocuments{
		Documents:  documents,
		NextCursor: nextCursor,
	}, nil
}

// DocumentByID returns a document by its ID, excluding soft-deleted rows.
func (p *PgSQL) DocumentByID(ctx context.Context,
	userID domain.UserID,
	id domain.DocumentID) (*domain.Document, error) {
	var row PgDocument
	found, err := p.Builder.From(documentsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch document by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) LastCheckedDocumentByURL(ctx context.Context, URL string) (*domain.Document, error) {
	var row PgDocument
	found, err := p.Builder.From(documentsTable).
		Where(
			goqu.I("url").Eq(URL),
			goqu.I("status").In(string(domain.DocumentStatusAvailable), string(domain.DocumentStatusMissing)),
		).
		Order(goqu.I("updated_at").Desc().NullsLast()).
		Limit(1).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch last checked document: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
