// Package metadata holds software component descriptions and their release
// histories, the way software catalogs and app-store style tooling consume
// them.
//
// The package centers on two containers. ComponentCollection is an ordered,
// optionally deduplicating bag of components keyed by their identity string.
// ReleaseCollection holds one component's version history; release data of
// external kind is fetched lazily from the network or from a sibling file
// next to the metainfo source, driven by the shared document Context.
//
// Both catalog XML/YAML and single-component metainfo XML forms are
// supported for parsing and emission. Release history is always emitted
// newest first, ordered by the vercmp version comparison.
package metadata
