package metadata

import (
	"fmt"
	"slices"
	"strings"
)

// CollectionOptions configures a ComponentCollection at construction time.
type CollectionOptions struct {
	// NoChecks disables identity bookkeeping: adds always succeed, no
	// duplicate detection is performed, and no identity index is kept.
	// Use it when the caller has already validated disjointness and wants
	// plain array storage without overhead.
	NoChecks bool
}

// ComponentCollection is an ordered container for components that are
// managed together and usually share the same document context.
//
// In checked mode (the default) the collection maintains an index from
// identity string to component and rejects duplicate identities on Add.
type ComponentCollection struct {
	opts  CollectionOptions
	cpts  []*Component
	index map[string]*Component
}

// NewComponentCollection creates an empty component collection.
func NewComponentCollection(opts CollectionOptions) *ComponentCollection {
	cc := &ComponentCollection{opts: opts}
	if !opts.NoChecks {
		cc.index = make(map[string]*Component)
	}
	return cc
}

// NewSimpleComponentCollection creates a component collection with checks
// disabled, so it is basically array storage without overhead.
func NewSimpleComponentCollection() *ComponentCollection {
	return NewComponentCollection(CollectionOptions{NoChecks: true})
}

// Options returns the options this collection was constructed with.
func (cc *ComponentCollection) Options() CollectionOptions {
	return cc.opts
}

// Components returns the contained components in insertion order.
func (cc *ComponentCollection) Components() []*Component {
	return cc.cpts
}

// Len returns the amount of components in this collection.
func (cc *ComponentCollection) Len() int {
	return len(cc.cpts)
}

// IsEmpty reports whether there are no components present.
func (cc *ComponentCollection) IsEmpty() bool {
	return len(cc.cpts) == 0
}

// IndexSafe returns the component at index i, or nil if i is out of bounds.
func (cc *ComponentCollection) IndexSafe(i int) *Component {
	if i < 0 || i >= len(cc.cpts) {
		return nil
	}
	return cc.cpts[i]
}

// Add appends a component to the collection. In checked mode a component
// whose identity string is already present is rejected with
// ErrIdentityConflict and not added.
func (cc *ComponentCollection) Add(cpt *Component) error {
	if !cc.opts.NoChecks {
		dataID := cpt.DataID()
		if _, exists := cc.index[dataID]; exists {
			return fmt.Errorf("tried to insert component that already exists: %s: %w",
				dataID, ErrIdentityConflict)
		}
		cc.index[dataID] = cpt
	}

	cc.cpts = append(cc.cpts, cpt)
	return nil
}

// RemoveAt removes the component at index i. Out-of-range indices are
// ignored.
//
// In checked mode the matching index entry is removed as well: first by
// identity-string key, and if the indexed object under that key is a
// different component sharing the same identity string, by a linear scan
// for the exact object. The index never retains a mapping to a removed
// component.
func (cc *ComponentCollection) RemoveAt(i int) {
	if i < 0 || i >= len(cc.cpts) {
		return
	}
	cpt := cc.cpts[i]
	cc.cpts = slices.Delete(cc.cpts, i, i+1)

	if cc.index == nil {
		return
	}
	dataID := cpt.DataID()
	if cc.index[dataID] == cpt {
		delete(cc.index, dataID)
		return
	}
	// Two distinct components shared one identity string; find the exact
	// object so no stale mapping is left behind.
	for key, indexed := range cc.index {
		if indexed == cpt {
			delete(cc.index, key)
			return
		}
	}
}

// Clear removes all components from the collection.
func (cc *ComponentCollection) Clear() {
	cc.cpts = cc.cpts[:0]
	if cc.index != nil {
		cc.index = make(map[string]*Component)
	}
}

// SortByID sorts components by their identity string, bringing them into
// a deterministic order.
func (cc *ComponentCollection) SortByID() {
	slices.SortStableFunc(cc.cpts, func(a, b *Component) int {
		return strings.Compare(a.DataID(), b.DataID())
	})
}

// SortByScore sorts components by their search match score, best match
// first.
func (cc *ComponentCollection) SortByScore() {
	slices.SortStableFunc(cc.cpts, func(a, b *Component) int {
		return b.SortScore - a.SortScore
	})
}
