package metadata

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/catalog/pkg/vercmp"
)

// ReleaseKind classifies a single release entry.
type ReleaseKind int

const (
	ReleaseKindUnknown ReleaseKind = iota
	ReleaseKindStable
	ReleaseKindDevelopment
)

// String returns the serialized form of the release kind.
func (k ReleaseKind) String() string {
	switch k {
	case ReleaseKindStable:
		return "stable"
	case ReleaseKindDevelopment:
		return "development"
	default:
		return "unknown"
	}
}

// ReleaseKindFromString converts the serialized form back to a ReleaseKind.
// An empty string maps to the stable default.
func ReleaseKindFromString(s string) ReleaseKind {
	switch s {
	case "", "stable":
		return ReleaseKindStable
	case "development":
		return ReleaseKindDevelopment
	default:
		return ReleaseKindUnknown
	}
}

// Release is one version entry in a component's release history.
type Release struct {
	// Version is the version string of this release. A release without a
	// version is invalid and is rejected at load time.
	Version string

	// Kind classifies the release; stable when not declared.
	Kind ReleaseKind

	// Timestamp is the release date as unix time, 0 when unknown.
	Timestamp int64

	// Urgency is the update urgency ("low", "medium", "high", "critical").
	Urgency string

	// Description is the release description markup, verbatim.
	Description string

	// DetailsURL points to detailed release notes. Optional.
	DetailsURL string

	context *Context
}

// NewRelease creates an empty stable release entry.
func NewRelease() *Release {
	return &Release{Kind: ReleaseKindStable}
}

// Context returns the document context associated with this release, or nil.
func (r *Release) Context() *Context {
	return r.context
}

// SetContext sets the document context this release is associated with.
func (r *Release) SetContext(dctx *Context) {
	r.context = dctx
}

// VersionCompare compares this release's version against other's.
// It returns > 0 if r is newer, 0 on equal versions, < 0 if other is newer.
func (r *Release) VersionCompare(other *Release) int {
	return vercmp.Compare(r.Version, other.Version)
}

// Date returns the release timestamp as a time, zero when unset.
func (r *Release) Date() time.Time {
	if r.Timestamp == 0 {
		return time.Time{}
	}
	return time.Unix(r.Timestamp, 0).UTC()
}

// xmlRelease is the XML wire form of one release entry.
type xmlRelease struct {
	Type        string          `xml:"type,attr,omitempty"`
	Version     string          `xml:"version,attr"`
	Date        string          `xml:"date,attr,omitempty"`
	Timestamp   string          `xml:"timestamp,attr,omitempty"`
	Urgency     string          `xml:"urgency,attr,omitempty"`
	Description *xmlDescription `xml:"description,omitempty"`
	URL         string          `xml:"url,omitempty"`
}

// xmlDescription preserves the description's inner markup verbatim.
type xmlDescription struct {
	Raw string `xml:",innerxml"`
}

// parseReleaseTime accepts an ISO-8601 date or date-time, or a raw unix
// timestamp, and returns unix time.
func parseReleaseTime(date, timestamp string) (int64, error) {
	if timestamp != "" {
		ts, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid release timestamp %q: %w", timestamp, err)
		}
		return ts, nil
	}
	if date == "" {
		return 0, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("invalid release date %q", date)
}

// loadXML fills the release from its XML wire form. A missing version makes
// the entry invalid; the collection drops such entries and keeps going.
func (r *Release) loadXML(dctx *Context, node *xmlRelease) error {
	if node.Version == "" {
		return fmt.Errorf("release entry has no version: %w", ErrParse)
	}
	r.context = dctx
	r.Version = node.Version
	r.Kind = ReleaseKindFromString(node.Type)
	r.Urgency = node.Urgency
	r.DetailsURL = node.URL
	if node.Description != nil {
		r.Description = node.Description.Raw
	}

	ts, err := parseReleaseTime(node.Date, node.Timestamp)
	if err != nil {
		return fmt.Errorf("%s: %w", err, ErrParse)
	}
	r.Timestamp = ts
	return nil
}

// xmlNode returns the XML wire form of this release.
func (r *Release) xmlNode(dctx *Context) *xmlRelease {
	node := &xmlRelease{
		Version: r.Version,
		Urgency: r.Urgency,
		URL:     r.DetailsURL,
	}
	// The stable default and unknown kinds are not serialized.
	if r.Kind == ReleaseKindDevelopment {
		node.Type = r.Kind.String()
	}
	if r.Timestamp != 0 {
		if dctx != nil && dctx.Style == StyleMetainfo {
			node.Date = r.Date().Format(time.RFC3339)
		} else {
			node.Timestamp = strconv.FormatInt(r.Timestamp, 10)
		}
	}
	if r.Description != "" {
		node.Description = &xmlDescription{Raw: r.Description}
	}
	return node
}

// yamlRelease is the catalog YAML wire form of one release entry.
type yamlRelease struct {
	Version       string `yaml:"version"`
	Type          string `yaml:"type,omitempty"`
	Date          string `yaml:"date,omitempty"`
	UnixTimestamp int64  `yaml:"unix-timestamp,omitempty"`
	Urgency       string `yaml:"urgency,omitempty"`
	Description   string `yaml:"description,omitempty"`
	URL           string `yaml:"url,omitempty"`
}

// loadYAML fills the release from one YAML sequence entry.
func (r *Release) loadYAML(dctx *Context, node *yaml.Node) error {
	var yr yamlRelease
	if err := node.Decode(&yr); err != nil {
		return fmt.Errorf("decoding release entry: %w", ErrParse)
	}
	if yr.Version == "" {
		return fmt.Errorf("release entry has no version: %w", ErrParse)
	}
	r.context = dctx
	r.Version = yr.Version
	r.Kind = ReleaseKindFromString(yr.Type)
	r.Urgency = yr.Urgency
	r.Description = yr.Description
	r.DetailsURL = yr.URL

	if yr.UnixTimestamp != 0 {
		r.Timestamp = yr.UnixTimestamp
	} else if yr.Date != "" {
		ts, err := parseReleaseTime(yr.Date, "")
		if err != nil {
			return fmt.Errorf("%s: %w", err, ErrParse)
		}
		r.Timestamp = ts
	}
	return nil
}

// yamlNode returns the catalog YAML wire form of this release.
func (r *Release) yamlNode(dctx *Context) (*yaml.Node, error) {
	yr := yamlRelease{
		Version:     r.Version,
		Urgency:     r.Urgency,
		Description: r.Description,
		URL:         r.DetailsURL,
	}
	if r.Kind == ReleaseKindDevelopment {
		yr.Type = r.Kind.String()
	}
	if r.Timestamp != 0 {
		yr.UnixTimestamp = r.Timestamp
	}

	node := &yaml.Node{}
	if err := node.Encode(yr); err != nil {
		return nil, fmt.Errorf("encoding release entry: %w", err)
	}
	return node, nil
}
