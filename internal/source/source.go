// Package source defines the web sources consulted for update discovery and
// the fetching/extraction machinery that runs against them.
//
// Design Decisions:
// - The fallback order is data, not control flow: the cascade is an ordered
//   slice of Spec values, so adding a source never touches resolver logic
// - Extraction patterns are compiled once at startup and owned by their
//   Spec; there is no mutable pattern registry
// - Extraction is plain pattern matching over raw page text. The known
//   sources embed the version in a stable markup fragment; a full HTML
//   parse buys nothing and breaks just as hard when the page changes.
package source

import (
	"fmt"
	"regexp"
	"strings"
)

// Source identifiers, in cascade order.
const (
	IDPlayStore = "play_store"
	IDAppBrain  = "appbrain"
	IDXposed    = "xposed"
)

// Patterns may have to be updated as the sites change.
var (
	playVersionPattern     = regexp.MustCompile(`itemprop="softwareVersion">([^<]+?)</div>`)
	appBrainVersionPattern = regexp.MustCompile(`<div class="clDesc">Version ([^<]+?)</div>`)
	xposedVersionPattern   = regexp.MustCompile(`>([^<]+?)</div></div></div><div class="field field-name-field-release-type field-type-list-text field-label-inline clearfix"><div class="field-label">Release type:&nbsp;</div><div class="field-items"><div class="field-item even">Stable`)

	// AppBrain serves a real page for packages it has delisted. A match
	// here is a definitive not-available signal, not a format change.
	appBrainUnavailablePattern = regexp.MustCompile(`This app is unfortunately no longer available on the Android market\.|Oops! This page does not exist anymore\.\.\.`)
)

// Spec describes one update source: where to fetch and how to pull a
// version candidate out of the page text.
type Spec struct {
	ID          string
	URLTemplate string // one %s substitution slot for the package name
	Cookie      string // extra Cookie header some sources require, "" for none

	pattern     *regexp.Regexp
	unavailable *regexp.Regexp
}

// NewSpec builds a Spec with an already compiled version pattern. The
// unavailable pattern may be nil.
func NewSpec(id, urlTemplate, cookie string, pattern, unavailable *regexp.Regexp) Spec {
	return Spec{
		ID:          id,
		URLTemplate: urlTemplate,
		Cookie:      cookie,
		pattern:     pattern,
		unavailable: unavailable,
	}
}

// URL substitutes the package name into the source's URL template.
func (s Spec) URL(packageName string) string {
	return fmt.Sprintf(s.URLTemplate, packageName)
}

// Extract applies the source's version pattern to the page text. It returns
// the first match's capture group trimmed of surrounding whitespace, and
// whether a match was found at all. Each source has exactly one pattern;
// there is no fallback pattern within a source.
func (s Spec) Extract(pageText string) (string, bool) {
	m := s.pattern.FindStringSubmatch(pageText)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Unavailable reports whether the page explicitly says the package has been
// delisted. Only meaningful when Extract found nothing; sources without an
// unavailable pattern always report false.
func (s Spec) Unavailable(pageText string) bool {
	if s.unavailable == nil {
		return false
	}
	return s.unavailable.MatchString(pageText)
}

// DefaultCascade returns the fixed source order tried for apps with no
// known update source: the storefront first, then the mirrors.
func DefaultCascade() []Spec {
	return []Spec{
		NewSpec(IDPlayStore, "https://play.google.com/store/apps/details?id=%s", "", playVersionPattern, nil),
		// AppBrain rejects non-browser agents and gates access behind a
		// consent cookie.
		NewSpec(IDAppBrain, "https://www.appbrain.com/app/google/%s", "agentok=1", appBrainVersionPattern, appBrainUnavailablePattern),
		NewSpec(IDXposed, "http://repo.xposed.info/module/%s", "", xposedVersionPattern, nil),
	}
}
