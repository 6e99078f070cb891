// Package domain contains the core entities shared across the portal services:
// registered documents, users and cached translations. The types are free of
// infrastructure concerns so storage and transport packages can both use them.
package domain
