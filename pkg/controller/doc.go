// Package controller contains HTTP middlewares shared by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds permissive CORS headers and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithPlatform: Detects the client platform used to build place links.
//   - WithMetrics: Records request durations on the service instruments.
//   - WithRateLimit: Limits requests per client IP.
package controller
