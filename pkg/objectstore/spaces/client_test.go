package spaces_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"portal/pkg/objectstore/spaces"
	"portal/pkg/serrors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, fn rtFunc) *spaces.Client {
	t.Helper()

	c, err := spaces.New(spaces.Options{
		Endpoint:   "nyc3.digitaloceanspaces.com",
		Bucket:     "sitimm-files",
		AccessKey:  "key",
		SecretKey:  "secret",
		HTTPClient: &http.Client{Transport: fn},
	})
	require.NoError(t, err)

	return c
}

func response(status int, h http.Header) *http.Response {
	if h == nil {
		h = http.Header{}
	}

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := spaces.New(spaces.Options{Endpoint: "https://nyc3.digitaloceanspaces.com"})
	require.Error(t, err)
}

func TestClient_Stat_Success(t *testing.T) {
	modified := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodHead, r.Method)
		require.Equal(t, "nyc3.digitaloceanspaces.com", r.URL.Host)
		require.Equal(t, "/sitimm-files/revistas/2024/enero.pdf", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Authorization"))

		h := http.Header{}
		h.Set("Content-Length", "52341")
		h.Set("Content-Type", "application/pdf")
		h.Set("Last-Modified", modified.Format(http.TimeFormat))

		return response(http.StatusOK, h), nil
	})

	info, err := c.Stat(context.Background(), "revistas/2024/enero.pdf")
	require.NoError(t, err)
	require.Equal(t, int64(52341), info.Size)
	require.Equal(t, "application/pdf", info.ContentType)
	require.True(t, modified.Equal(info.LastModified))
}

func TestClient_Stat_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		kind   error
	}{
		{name: "not found", status: http.StatusNotFound, kind: serrors.ErrNotFound},
		{name: "slow down", status: http.StatusServiceUnavailable, kind: serrors.ErrRateLimited},
		{name: "too many requests", status: http.StatusTooManyRequests, kind: serrors.ErrRateLimited},
		{name: "forbidden", status: http.StatusForbidden, kind: serrors.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
				return response(tc.status, nil), nil
			})

			_, err := c.Stat(context.Background(), "missing.pdf")
			require.Error(t, err)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestClient_Stat_UnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return response(http.StatusInternalServerError, nil), nil
	})

	_, err := c.Stat(context.Background(), "a.pdf")
	require.Error(t, err)
	require.False(t, errors.Is(err, serrors.ErrNotFound))
	require.False(t, errors.Is(err, serrors.ErrRateLimited))
}

func TestClient_Stat_TransportError(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := c.Stat(context.Background(), "a.pdf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "a.pdf")
}
