// Package pdfurl rewrites the different representations of a stored document
// path (full URL, malformed host/bucket URL, bare relative path) into the one
// canonical absolute URL served by the files bucket.
package pdfurl

import (
	"net/url"
	"strings"
)

const (
	// CanonicalHost is the virtual-hosted bucket host every document URL should point at.
	CanonicalHost = "sitimm-files.nyc3.digitaloceanspaces.com"
	// CanonicalPrefix is prepended to bare object paths.
	CanonicalPrefix = "https://" + CanonicalHost + "/"
	// MalformedSegment is the path-style host/bucket ordering found in legacy records.
	MalformedSegment = "nyc3.digitaloceanspaces.com/sitimm-files"
	// BucketPrefix is a bucket name left at the start of a relative path.
	BucketPrefix = "sitimm-files/"
)

// Rule names the normalization rule that produced a result.
type Rule string

const (
	// RuleEmpty means the input was absent or blank; the result is "".
	RuleEmpty Rule = "empty"
	// RuleCanonical means the input already pointed at CanonicalHost.
	RuleCanonical Rule = "canonical"
	// RuleRewriteHost means MalformedSegment was replaced by CanonicalHost.
	RuleRewriteHost Rule = "rewrite_host"
	// RulePassthrough means the input was an absolute URL to an unrelated host.
	RulePassthrough Rule = "passthrough"
	// RuleStripMalformedHost means leading malformed host text was discarded from a relative path.
	RuleStripMalformedHost Rule = "strip_malformed_host"
	// RuleStripBucket means a leading BucketPrefix was discarded from a relative path.
	RuleStripBucket Rule = "strip_bucket"
	// RulePrefixOnly means the relative path was used as is.
	RulePrefixOnly Rule = "prefix_only"
)

// Result is the outcome of Classify.
type Result struct {
	// URL is the normalized URL, "" for RuleEmpty.
	URL string
	// Rule is the rule that produced URL.
	Rule Rule
	// Ambiguous is set when a relative path matched both the malformed host rule
	// and the bucket prefix rule. The malformed host rule wins.
	Ambiguous bool
}

// Normalize returns the canonical URL for raw. It returns "" only when raw is
// blank. Unrelated absolute URLs are returned untouched and no percent-encoding
// is applied to the path.
func Normalize(raw string) string {
	return Classify(raw).URL
}

// Classify runs the same rules as Normalize and reports which one applied.
// Rules are evaluated in order and the first match wins.
func Classify(raw string) Result {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Result{Rule: RuleEmpty}
	}

	if hasProtocol(v) {
		if strings.Contains(v, MalformedSegment) && !strings.Contains(v, CanonicalHost) {
			return Result{
				URL:  strings.Replace(v, MalformedSegment, CanonicalHost, 1),
				Rule: RuleRewriteHost,
			}
		}
		if strings.Contains(v, CanonicalHost) {
			return Result{URL: v, Rule: RuleCanonical}
		}

		return Result{URL: v, Rule: RulePassthrough}
	}

	p := strings.TrimPrefix(v, "/")

	needle := MalformedSegment + "/"
	if idx := strings.Index(p, needle); idx >= 0 {
		return Result{
			URL:       CanonicalPrefix + p[idx+len(needle):],
			Rule:      RuleStripMalformedHost,
			Ambiguous: strings.HasPrefix(p, BucketPrefix),
		}
	}
	if strings.HasPrefix(p, BucketPrefix) {
		return Result{URL: CanonicalPrefix + strings.TrimPrefix(p, BucketPrefix), Rule: RuleStripBucket}
	}

	return Result{URL: CanonicalPrefix + p, Rule: RulePrefixOnly}
}

// Key returns the object key addressed by a canonical URL. Query and fragment
// are dropped and percent-escapes decoded. It reports false when canonical is
// not below CanonicalPrefix or addresses the bucket root.
func Key(canonical string) (string, bool) {
	if !hasPrefixFold(canonical, CanonicalPrefix) {
		return "", false
	}

	key := canonical[len(CanonicalPrefix):]
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	if key == "" {
		return "", false
	}

	return key, true
}

func hasProtocol(v string) bool {
	return hasPrefixFold(v, "http://") || hasPrefixFold(v, "https://")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
