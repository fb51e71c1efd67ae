package metadata

import (
	"net/http"
	"time"
)

// FormatStyle selects the serialization form of a metadata document.
type FormatStyle int

const (
	// StyleCatalog is the multi-component catalog document form.
	StyleCatalog FormatStyle = iota

	// StyleMetainfo is the single-component metainfo document form.
	StyleMetainfo
)

// Context carries settings shared by all objects of one metadata document:
// the serialization style, the document origin, the media base URL used to
// resolve relative resource URLs, and the source filename the document was
// read from.
//
// A Context is shared read-mostly between a component collection, its
// components and their release collections. It is not safe to reconfigure
// a context while other goroutines resolve data through it.
type Context struct {
	// Style is the document form being parsed or emitted.
	Style FormatStyle

	// Origin names the data source this document came from (e.g. a
	// repository suite name). Optional.
	Origin string

	// Locale is the active locale for localized fields. Optional.
	Locale string

	// MediaBaseURL is prefixed to relative media and release-data URLs
	// declared in the document. Optional.
	MediaBaseURL string

	// Filename is the path of the source file this document was read from.
	// External release data lookup derives its sibling path from it.
	Filename string

	// Priority is the priority of this metadata over other sources.
	Priority int

	client *http.Client
}

// NewContext returns a context with catalog style defaults.
func NewContext() *Context {
	return &Context{Style: StyleCatalog}
}

// HasMediaBaseURL reports whether a media base URL is configured.
func (c *Context) HasMediaBaseURL() bool {
	return c.MediaBaseURL != ""
}

// Client returns the shared HTTP client used to fetch external release data,
// creating it on first use. Callers that need a different timeout or
// transport configure the returned client directly; every collection
// attached to this context shares it.
func (c *Context) Client() *http.Client {
	if c.client == nil {
		c.client = &http.Client{Timeout: 60 * time.Second}
	}
	return c.client
}
