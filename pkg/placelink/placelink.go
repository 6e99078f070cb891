// Package placelink turns free-text place descriptions (venue names, street
// addresses, text carrying a URL) into navigable map links, choosing between an
// explicit embedded URL, a native map deep link or a web map search.
package placelink

import (
	"regexp"
	"strings"
)

// Platform is the runtime platform a link is built for.
type Platform int

const (
	// PlatformDesktop covers desktop browsers and unknown or absent user agents.
	PlatformDesktop Platform = iota
	// PlatformIOS covers iPhone, iPad and iPod user agents.
	PlatformIOS
	// PlatformAndroid covers Android user agents.
	PlatformAndroid
)

const (
	appleMapsScheme = "maps://"
	geoScheme       = "geo:"

	// AppleMapsPrefix starts the native Apple Maps deep link built on iOS.
	AppleMapsPrefix = appleMapsScheme + "maps.apple.com/?q="
	// GeoPrefix starts the geo URI built on Android.
	GeoPrefix = geoScheme + "0,0?q="
	// WebSearchPrefix starts the Google Maps search URL built everywhere else.
	WebSearchPrefix = "https://www.google.com/maps/search/?api=1&query="
)

var (
	urlTokenRE = regexp.MustCompile(`(?i)https?://[^\s\v\p{Zs}\x{2028}\x{2029}\x{feff}]+`)
	iosRE      = regexp.MustCompile(`(?i)iphone|ipad|ipod`)
	androidRE  = regexp.MustCompile(`(?i)android`)
)

// String returns the lower-case platform name.
func (p Platform) String() string {
	switch p {
	case PlatformIOS:
		return "ios"
	case PlatformAndroid:
		return "android"
	default:
		return "desktop"
	}
}

// ParsePlatform maps a platform name back to a Platform. Unknown names report false.
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desktop", "web":
		return PlatformDesktop, true
	case "ios":
		return PlatformIOS, true
	case "android":
		return PlatformAndroid, true
	default:
		return PlatformDesktop, false
	}
}

// DetectPlatform sniffs a user agent string. iOS is checked before Android, so
// a user agent matching both is treated as iOS. An empty user agent is desktop.
func DetectPlatform(userAgent string) Platform {
	switch {
	case iosRE.MatchString(userAgent):
		return PlatformIOS
	case androidRE.MatchString(userAgent):
		return PlatformAndroid
	default:
		return PlatformDesktop
	}
}

// Link is a display label paired with a navigation target.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Resolve builds a Link from raw for the given platform. It returns nil for an
// empty raw string and never fails otherwise.
//
// The first http(s) token in raw is used verbatim as the URL. The label is raw
// with every URL token removed and trimmed, falling back to the extracted URL
// and then to raw itself.
func Resolve(raw string, platform Platform) *Link {
	if raw == "" {
		return nil
	}

	explicit := ExtractURL(raw)

	label := strings.TrimSpace(urlTokenRE.ReplaceAllLiteralString(raw, ""))
	if label == "" {
		label = explicit
	}
	if label == "" {
		label = raw
	}

	if explicit != "" {
		return &Link{Label: label, URL: explicit}
	}

	return &Link{Label: label, URL: searchURL(label, platform)}
}

// ExtractURL returns the first http(s) token in raw, or "".
func ExtractURL(raw string) string {
	return urlTokenRE.FindString(raw)
}

// WebSearchURL returns the Google Maps search URL for a free-text query.
func WebSearchURL(query string) string {
	return WebSearchPrefix + EncodeComponent(query)
}

// IsDeepLink reports whether u uses one of the native map schemes built by Resolve.
func IsDeepLink(u string) bool {
	return strings.HasPrefix(u, appleMapsScheme) || strings.HasPrefix(u, geoScheme)
}

func searchURL(label string, platform Platform) string {
	switch platform {
	case PlatformIOS:
		return AppleMapsPrefix + EncodeComponent(label)
	case PlatformAndroid:
		return GeoPrefix + EncodeComponent(label)
	default:
		return WebSearchURL(label)
	}
}

// EncodeComponent percent-encodes s as a URI component. Unreserved characters
// and !*'() are kept; every other byte of the UTF-8 encoding becomes %XX.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepUnescaped(c) {
			b.WriteByte(c)

			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}

	return b.String()
}

func keepUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}

	return false
}
