package v1handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"portal/internal/api/handler/v1handler"
	"portal/pkg/serrors"
	"portal/pkg/translation"
	"testing"

	mocktranslation "portal/pkg/translation/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLookupTranslations(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocktranslation.NewMockStore(ctrl)
	srv := newAPIServer(t, v1handler.Deps{Translations: translation.New(store)})

	store.EXPECT().
		GetTranslations(gomock.Any(), "es-MX", []string{"Magazine", "Bulletin"}).
		Return(map[string]string{"Magazine": "Revista"}, nil)

	rec := srv.do(t, http.MethodPost, "/translations/es-mx/lookup",
		`{"sources":["Magazine","","Bulletin","Magazine"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got v1handler.LookupTranslationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, v1handler.LookupTranslationsResponse{
		Locale: "es-MX",
		Hits:   map[string]string{"Magazine": "Revista"},
		Misses: []string{"Bulletin"},
	}, got)
}

func TestLookupTranslations_InvalidLocale(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newAPIServer(t, v1handler.Deps{Translations: translation.New(mocktranslation.NewMockStore(ctrl))})

	rec := srv.do(t, http.MethodPost, "/translations/!!/lookup", `{"sources":["a"]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, serrors.ErrBadRequest.Error(), decodeError(t, rec).Code)
}

func TestLookupTranslations_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocktranslation.NewMockStore(ctrl)
	srv := newAPIServer(t, v1handler.Deps{Translations: translation.New(store)})

	store.EXPECT().GetTranslations(gomock.Any(), "en", []string{"a"}).Return(nil, errors.New("db down"))

	rec := srv.do(t, http.MethodPost, "/translations/en/lookup", `{"sources":["a"]}`, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal error", decodeError(t, rec).Message)
}

func TestLookupTranslations_Disabled(t *testing.T) {
	srv := newAPIServer(t, v1handler.Deps{})

	rec := srv.do(t, http.MethodPost, "/translations/en/lookup", `{"sources":["a"]}`, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStoreTranslations(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocktranslation.NewMockStore(ctrl)
	srv := newAPIServer(t, v1handler.Deps{Translations: translation.New(store)})

	store.EXPECT().
		SetTranslations(gomock.Any(), "pt-BR", map[string]string{"Magazine": "Revista"}).
		Return(nil)

	rec := srv.do(t, http.MethodPut, "/translations/pt-br",
		`{"entries":{"Magazine":"Revista"}}`, bearer(srv.token(t, uuid.NewString())))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestStoreTranslations_RequiresAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newAPIServer(t, v1handler.Deps{Translations: translation.New(mocktranslation.NewMockStore(ctrl))})

	rec := srv.do(t, http.MethodPut, "/translations/en", `{"entries":{"a":"b"}}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, serrors.ErrUnauthorized.Error(), decodeError(t, rec).Code)
}

func TestStoreTranslations_EmptyText(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv := newAPIServer(t, v1handler.Deps{Translations: translation.New(mocktranslation.NewMockStore(ctrl))})

	rec := srv.do(t, http.MethodPut, "/translations/en",
		`{"entries":{"a":""}}`, bearer(srv.token(t, uuid.NewString())))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
