package v1handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"portal/internal/api/handler/v1handler"
	"portal/pkg/domain"
	"portal/pkg/serrors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSecHandlerForTest(t *testing.T, pubPEM string) *v1handler.SecHandler {
	t.Helper()
	sh, err := v1handler.NewSecHandler(&v1handler.SecHandlerOptions{PublicKey: pubPEM})
	require.NoError(t, err, "NewSecHandler failed")

	return sh
}

func TestNewSecHandler_InvalidKey(t *testing.T) {
	_, err := v1handler.NewSecHandler(&v1handler.SecHandlerOptions{PublicKey: "not a pem"})
	require.Error(t, err)
}

func TestHandleBearerAuth_ValidToken(t *testing.T) {
	priv, pubPEM := genRSAKeys(t)
	sh := newSecHandlerForTest(t, pubPEM)

	uid := uuid.New()
	now := time.Now()
	tkn := signJWTRS256(t, priv, uid.String(), now, now.Add(1*time.Hour))

	ctx, err := sh.HandleBearerAuth(context.Background(), tkn)
	require.NoError(t, err)

	v := ctx.Value(v1handler.UserIDKey)
	require.NotNil(t, v, "expected userID in context")
	got, ok := v.(domain.UserID)
	require.True(t, ok, "userID in context has wrong type: %T", v)
	require.Equal(t, domain.UserID(uid), got)
	require.Equal(t, domain.UserID(uid), v1handler.GetUserIDFromContext(ctx))
}

func TestHandleBearerAuth_Rejected(t *testing.T) {
	priv, pubPEM := genRSAKeys(t)
	privOther, _ := genRSAKeys(t)
	sh := newSecHandlerForTest(t, pubPEM)
	now := time.Now()

	hs256 := func() string {
		claims := jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			NotBefore: jwt.NewNumericDate(now),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err, "failed to sign HS256 token")

		return signed
	}

	noExpiry := func() string {
		claims := jwt.RegisteredClaims{Subject: uuid.NewString(), IssuedAt: jwt.NewNumericDate(now)}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(priv)
		require.NoError(t, err)

		return signed
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "invalid signature", token: signJWTRS256(t, privOther, uuid.NewString(), now, now.Add(time.Hour))},
		{name: "expired", token: signJWTRS256(t, priv, uuid.NewString(), now.Add(-2*time.Hour), now.Add(-1*time.Hour))},
		{name: "non uuid subject", token: signJWTRS256(t, priv, "not-a-uuid", now, now.Add(time.Hour))},
		{name: "wrong algorithm", token: hs256()},
		{name: "missing expiry", token: noExpiry()},
		{name: "garbage", token: "abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sh.HandleBearerAuth(context.Background(), tt.token)
			require.Error(t, err)
			require.ErrorIs(t, err, serrors.ErrUnauthorized)
		})
	}
}

func TestSecHandler_Middleware(t *testing.T) {
	priv, pubPEM := genRSAKeys(t)
	sh := newSecHandlerForTest(t, pubPEM)
	uid := uuid.New()
	now := time.Now()

	var gotErr error
	onError := func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	}
	var gotUser domain.UserID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = v1handler.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		sec    *v1handler.SecHandler
		header string
		status int
	}{
		{name: "valid", sec: sh, header: "Bearer " + signJWTRS256(t, priv, uid.String(), now, now.Add(time.Hour)), status: http.StatusOK},
		{name: "lowercase scheme", sec: sh, header: "bearer " + signJWTRS256(t, priv, uid.String(), now, now.Add(time.Hour)), status: http.StatusOK},
		{name: "missing header", sec: sh, status: http.StatusUnauthorized},
		{name: "basic scheme", sec: sh, header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "empty token", sec: sh, header: "Bearer ", status: http.StatusUnauthorized},
		{name: "not configured", sec: nil, header: "Bearer x", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr, gotUser = nil, domain.UserID{}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.sec.Middleware(onError)(next).ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				require.NoError(t, gotErr)
				require.Equal(t, domain.UserID(uid), gotUser)

				return
			}
			require.ErrorIs(t, gotErr, serrors.ErrUnauthorized)
		})
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	require.Equal(t, domain.UserID{}, v1handler.GetUserIDFromContext(context.Background()))
}
