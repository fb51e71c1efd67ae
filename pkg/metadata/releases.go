package metadata

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/catalog/internal/output"
)

// ReleaseListKind describes where a component's release history lives.
type ReleaseListKind int

const (
	// ReleaseListKindEmbedded means release entries are stored inline in the
	// source document. This is the default.
	ReleaseListKindEmbedded ReleaseListKind = iota

	// ReleaseListKindExternal means release entries live in a separate local
	// file or behind a URL and are resolved on demand.
	ReleaseListKindExternal

	// ReleaseListKindUnknown is parsed from an unrecognized type attribute.
	// It is never produced by the serializer and is skipped by Resolve.
	ReleaseListKindUnknown
)

// String returns the serialized form of the release list kind.
func (k ReleaseListKind) String() string {
	switch k {
	case ReleaseListKindEmbedded:
		return "embedded"
	case ReleaseListKindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// ReleaseListKindFromString converts the serialized form back to a
// ReleaseListKind. An empty string maps to the embedded default.
func ReleaseListKindFromString(s string) ReleaseListKind {
	switch s {
	case "", "embedded":
		return ReleaseListKindEmbedded
	case "external":
		return ReleaseListKindExternal
	default:
		return ReleaseListKindUnknown
	}
}

// ReleaseCollection holds the release history of one component, together
// with information affecting all releases of that grouping. For external
// release data it fetches the entries on demand from a web URL or from a
// sibling file next to the metainfo source.
//
// A collection is not safe for concurrent use; callers parallelize across
// components, not within one collection.
type ReleaseCollection struct {
	kind    ReleaseListKind
	url     string
	context *Context
	entries []*Release
}

// NewReleaseCollection creates an empty release collection of embedded kind.
func NewReleaseCollection() *ReleaseCollection {
	return &ReleaseCollection{kind: ReleaseListKindEmbedded}
}

// Entries returns the underlying release entries in storage order.
func (rc *ReleaseCollection) Entries() []*Release {
	return rc.entries
}

// Len returns the amount of release entries present.
func (rc *ReleaseCollection) Len() int {
	return len(rc.entries)
}

// IsEmpty reports whether there are no release entries.
func (rc *ReleaseCollection) IsEmpty() bool {
	return len(rc.entries) == 0
}

// IndexSafe returns the release entry at index i, or nil if i is out
// of bounds.
func (rc *ReleaseCollection) IndexSafe(i int) *Release {
	if i < 0 || i >= len(rc.entries) {
		return nil
	}
	return rc.entries[i]
}

// Add appends a release entry. No ordering or deduplication is applied at
// insertion time; ordering is an emission-time concern.
func (rc *ReleaseCollection) Add(r *Release) {
	rc.entries = append(rc.entries, r)
}

// Clear removes all release entries. Kind and URL are left untouched.
func (rc *ReleaseCollection) Clear() {
	rc.entries = rc.entries[:0]
}

// SetSize truncates the entry list to n entries. Values of n at or above
// the current length leave the collection unchanged; SetSize never grows
// the list.
func (rc *ReleaseCollection) SetSize(n int) {
	if n >= 0 && n < len(rc.entries) {
		rc.entries = rc.entries[:n]
	}
}

// Kind returns the kind of release metadata associated with this component.
func (rc *ReleaseCollection) Kind() ReleaseListKind {
	return rc.kind
}

// SetKind sets the kind of release metadata associated with this component.
func (rc *ReleaseCollection) SetKind(kind ReleaseListKind) {
	rc.kind = kind
}

// URL returns the remote URL to obtain release information from, if any.
func (rc *ReleaseCollection) URL() string {
	return rc.url
}

// SetURL sets a remote URL pointing to an external release data file.
func (rc *ReleaseCollection) SetURL(url string) {
	rc.url = url
}

// Context returns the document context associated with these releases,
// or nil if none is set.
func (rc *ReleaseCollection) Context() *Context {
	return rc.context
}

// SetContext sets the document context these releases are associated with
// and cascades it to every contained release entry.
func (rc *ReleaseCollection) SetContext(dctx *Context) {
	rc.context = dctx
	if dctx == nil {
		return
	}
	for _, rel := range rc.entries {
		rel.SetContext(dctx)
	}
}

// Sort orders the release entries by version, most recent release first,
// so release history is always emitted newest to oldest regardless of
// insertion order.
func (rc *ReleaseCollection) Sort() {
	slices.SortStableFunc(rc.entries, func(a, b *Release) int {
		ret := a.VersionCompare(b)
		if ret == 0 {
			return 0
		}
		if ret >= 1 {
			return -1
		}
		return 1
	})
}

// LoadFromBytes loads release entries from an external release XML document.
// When dctx is non-nil it replaces the current document context first.
//
// Per-entry failures are not fatal: a malformed release entry is dropped
// and its siblings still load, so partial release history remains available.
func (rc *ReleaseCollection) LoadFromBytes(dctx *Context, data []byte) error {
	if dctx != nil {
		rc.SetContext(dctx)
	}

	var doc struct {
		Releases []xmlRelease `xml:"release"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unable to parse external release data: %v: %w", err, ErrParse)
	}

	for i := range doc.Releases {
		rel := NewRelease()
		if err := rel.loadXML(rc.context, &doc.Releases[i]); err != nil {
			output.Debug("ignoring invalid release entry", "error", err)
			continue
		}
		rc.entries = append(rc.entries, rel)
	}
	return nil
}

// Resolve loads external release data for component cpt, from the network
// if allowNet is set and a URL is known, and otherwise from the local
// releases/ directory next to the context's source file.
//
// Resolve is a no-op for non-external collections and for collections that
// already have entries, unless reload is set. Collections of external kind
// without an attached context fail with ErrMissingContext rather than
// silently staying empty.
func (rc *ReleaseCollection) Resolve(ctx context.Context, cpt *Component, reload, allowNet bool) error {
	if rc.kind != ReleaseListKindExternal {
		return nil
	}
	if len(rc.entries) != 0 && !reload {
		return nil
	}
	if rc.context == nil {
		return fmt.Errorf(
			"unable to read external release information from a component without metadata context: %w",
			ErrMissingContext)
	}

	if reload {
		rc.entries = rc.entries[:0]
	}

	var data []byte
	if allowNet && rc.url != "" {
		// Grab release data from the remote source.
		raw, err := fetchBytes(ctx, rc.context.Client(), rc.url)
		if err != nil {
			return fmt.Errorf("unable to obtain remote external release data: %v: %w", err, ErrNetwork)
		}
		data = raw
	} else {
		// Read release data from the local sibling location.
		if rc.context.Filename == "" {
			return fmt.Errorf(
				"unable to read external release information: component has no known metainfo filename: %w",
				ErrMissingContextFilename)
		}
		relPath := filepath.Join(
			filepath.Dir(rc.context.Filename),
			"releases",
			cpt.ID+".releases.xml")
		raw, err := os.ReadFile(relPath)
		if err != nil {
			return fmt.Errorf("unable to read local external release data: %v: %w", err, ErrLocalRead)
		}
		data = raw
	}

	return rc.LoadFromBytes(nil, data)
}

// loadXML fills the collection from a <releases> document node. Existing
// entries are always cleared first. Child parse failures are recovered
// locally and never propagated.
func (rc *ReleaseCollection) loadXML(dctx *Context, node *xmlReleases) {
	rc.Clear()
	rc.SetContext(dctx)

	rc.kind = ReleaseListKindFromString(node.Type)
	if rc.kind == ReleaseListKindExternal {
		if node.URL != "" {
			if dctx != nil && dctx.HasMediaBaseURL() {
				rc.url = dctx.MediaBaseURL + "/" + node.URL
			} else {
				rc.url = node.URL
			}
		}
		// External release data is never read at parse time.
		return
	}

	for i := range node.Releases {
		rel := NewRelease()
		if err := rel.loadXML(dctx, &node.Releases[i]); err != nil {
			output.Debug("ignoring invalid release entry", "error", err)
			continue
		}
		rc.entries = append(rc.entries, rel)
	}
}

// xmlNode returns the <releases> wire form of this collection, or nil when
// nothing is to be emitted.
//
// In metainfo style an external collection is emitted as a childless stub
// carrying only type and url: resolved entries are never duplicated into
// the single-file representation.
func (rc *ReleaseCollection) xmlNode(dctx *Context) *xmlReleases {
	if rc.kind == ReleaseListKindExternal && dctx != nil && dctx.Style == StyleMetainfo {
		node := &xmlReleases{Type: ReleaseListKindExternal.String()}
		node.URL = rc.url
		return node
	}

	if len(rc.entries) == 0 {
		return nil
	}

	rc.Sort()
	node := &xmlReleases{}
	for _, rel := range rc.entries {
		node.Releases = append(node.Releases, *rel.xmlNode(dctx))
	}
	return node
}

// loadYAML fills the collection from the sequence value of a "Releases"
// key in catalog YAML. Child parse failures are recovered locally.
func (rc *ReleaseCollection) loadYAML(dctx *Context, seq *yaml.Node) {
	rc.SetContext(dctx)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return
	}

	for _, child := range seq.Content {
		rel := NewRelease()
		if err := rel.loadYAML(dctx, child); err != nil {
			output.Debug("ignoring invalid release entry", "error", err)
			continue
		}
		rc.entries = append(rc.entries, rel)
	}
}

// emitYAML appends a "Releases" key with the sorted release sequence to the
// component's YAML mapping node. Nothing is emitted for an empty collection;
// the external URL reference form has no YAML representation.
func (rc *ReleaseCollection) emitYAML(dctx *Context, mapping *yaml.Node) error {
	if len(rc.entries) == 0 {
		return nil
	}

	rc.Sort()

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rel := range rc.entries {
		node, err := rel.yamlNode(dctx)
		if err != nil {
			return err
		}
		seq.Content = append(seq.Content, node)
	}

	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "Releases"},
		seq)
	return nil
}

// xmlReleases is the XML wire form of a component's <releases> element.
type xmlReleases struct {
	Type     string       `xml:"type,attr,omitempty"`
	URL      string       `xml:"url,attr,omitempty"`
	Releases []xmlRelease `xml:"release"`
}
