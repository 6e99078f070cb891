package controller

import (
	"context"
	"net/http"
	"portal/pkg/logger"
	"portal/pkg/placelink"

	"go.uber.org/zap"
)

// PlatformHeader lets a client state its platform instead of relying on the user agent.
const PlatformHeader = "X-Client-Platform"

// WithPlatform stores the client platform in the request context. A valid
// PlatformHeader wins over user agent detection.
func WithPlatform(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		platform, ok := placelink.ParsePlatform(r.Header.Get(PlatformHeader))
		if !ok {
			platform = placelink.DetectPlatform(r.UserAgent())
		}

		ctx := context.WithValue(r.Context(), PlatformKey, platform)
		ctx = logger.WithFields(ctx, zap.Stringer("platform", platform))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPlatform returns the platform stored by WithPlatform. Requests that did
// not pass through the middleware are treated as desktop.
func GetPlatform(ctx context.Context) placelink.Platform {
	p, ok := ctx.Value(PlatformKey).(placelink.Platform)
	if !ok {
		return placelink.PlatformDesktop
	}

	return p
}
