package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"portal/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgDocument struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	SourceURL string `db:"source_url"`
	URL       string `db:"url"`
	Status    string `db:"status"`
	Object    []byte `db:"object"     goqu:"skipinsert"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error" goqu:"skipinsert"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgDocument) ToDomain() (*domain.Document, error) {
	var object *domain.ObjectInfo
	if len(p.Object) > 0 && string(p.Object) != "null" {
		object = &domain.ObjectInfo{}
		if err := json.Unmarshal(p.Object, object); err != nil {
			return nil, fmt.Errorf("could not unmarshal document object: %w", err)
		}
	}

	return &domain.Document{
		ID:        domain.DocumentID(p.ID),
		UserID:    domain.UserID(p.UserID),
		SourceURL: p.SourceURL,
		URL:       p.URL,
		Status:    domain.DocumentStatus(p.Status),
		Object:    object,
		Attempts:  p.Attempts,
		LastError: p.LastError.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
		DeletedAt: p.DeletedAt.Time,
	}, nil
}

func (p *PgDocument) FromDomain(document domain.Document) error {
	var object []byte
	if document.Object != nil {
		b, err := json.Marshal(document.Object)
		if err != nil {
			return fmt.Errorf("could not marshal document object: %w", err)
		}
		object = b
	}

	*p = PgDocument{
		ID:        uuid.UUID(document.ID),
		UserID:    uuid.UUID(document.UserID),
		SourceURL: document.SourceURL,
		URL:       document.URL,
		Status:    string(document.Status),
		Object:    object,
		Attempts:  document.Attempts,
		LastError: sql.NullString{
			String: document.LastError,
			Valid:  document.LastError != "",
		},
		CreatedAt: document.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  document.UpdatedAt,
			Valid: !document.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  document.DeletedAt,
			Valid: !document.DeletedAt.IsZero(),
		},
	}

	return nil
}

type PgTranslation struct {
	Locale string `db:"locale"`
	Source string `db:"source"`
	Text   string `db:"text"`
}

func domainDocumentsToPg(documents []domain.Document) ([]PgDocument, error) {
	out := make([]PgDocument, len(documents))
	for i := range out {
		if err := out[i].FromDomain(documents[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func pgDocumentsToDomain(documents []PgDocument) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(documents))
	for _, document := range documents {
		d, err := document.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
