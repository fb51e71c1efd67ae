package metadata

import (
	"encoding/xml"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Component is one software component record of a metadata document.
// Only the fields the catalog machinery itself needs are modeled here;
// field-level schema coverage is out of scope.
type Component struct {
	// ID is the namespaced component ID, e.g. "org.example.Viewer".
	ID string

	// Kind is the component type string, e.g. "desktop-application".
	Kind string

	// Origin names the data source this component was loaded from.
	Origin string

	// Name is the human-readable component name.
	Name string

	// Summary is the one-line component summary.
	Summary string

	// PkgName is the distribution package providing this component.
	PkgName string

	// SortScore is the relevance score assigned by a search ranking pass.
	// It only affects ComponentCollection.SortByScore.
	SortScore int

	releases *ReleaseCollection
	context  *Context
}

// NewComponent creates an empty component with an embedded release collection.
func NewComponent() *Component {
	return &Component{releases: NewReleaseCollection()}
}

// DataID returns the identity string uniquely identifying this component
// within a collection: the origin-qualified ID when an origin is known,
// the plain ID otherwise.
func (c *Component) DataID() string {
	if c.Origin != "" {
		return c.Origin + "/" + c.ID
	}
	return c.ID
}

// Releases returns the release collection of this component.
func (c *Component) Releases() *ReleaseCollection {
	if c.releases == nil {
		c.releases = NewReleaseCollection()
	}
	return c.releases
}

// Context returns the document context associated with this component, or nil.
func (c *Component) Context() *Context {
	return c.context
}

// SetContext sets the document context and cascades it to the component's
// release collection.
func (c *Component) SetContext(dctx *Context) {
	c.context = dctx
	c.Releases().SetContext(dctx)
}

// xmlComponent is the XML wire form of one component.
type xmlComponent struct {
	XMLName  xml.Name     `xml:"component"`
	Type     string       `xml:"type,attr,omitempty"`
	ID       string       `xml:"id,omitempty"`
	Name     string       `xml:"name,omitempty"`
	Summary  string       `xml:"summary,omitempty"`
	PkgName  string       `xml:"pkgname,omitempty"`
	Releases *xmlReleases `xml:"releases"`
}

// loadXML fills the component from its XML wire form. A component without
// an ID has no identity and is rejected.
func (c *Component) loadXML(dctx *Context, node *xmlComponent) error {
	if node.ID == "" {
		return fmt.Errorf("component has no id: %w", ErrParse)
	}
	c.context = dctx
	c.ID = node.ID
	c.Kind = node.Type
	c.Name = node.Name
	c.Summary = node.Summary
	c.PkgName = node.PkgName
	if dctx != nil {
		c.Origin = dctx.Origin
	}

	if node.Releases != nil {
		c.Releases().loadXML(dctx, node.Releases)
	} else {
		c.Releases().SetContext(dctx)
	}
	return nil
}

// xmlNode returns the XML wire form of this component.
func (c *Component) xmlNode(dctx *Context) *xmlComponent {
	return &xmlComponent{
		Type:     c.Kind,
		ID:       c.ID,
		Name:     c.Name,
		Summary:  c.Summary,
		PkgName:  c.PkgName,
		Releases: c.Releases().xmlNode(dctx),
	}
}

// loadYAML fills the component from one catalog YAML document mapping.
// The Releases key is delegated to the release collection; unknown keys
// are skipped.
func (c *Component) loadYAML(dctx *Context, node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("component document is not a mapping: %w", ErrParse)
	}

	c.context = dctx
	if dctx != nil {
		c.Origin = dctx.Origin
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		value := node.Content[i+1]
		switch key.Value {
		case "ID":
			c.ID = value.Value
		case "Type":
			c.Kind = value.Value
		case "Package":
			c.PkgName = value.Value
		case "Name":
			c.Name = value.Value
		case "Summary":
			c.Summary = value.Value
		case "Releases":
			c.Releases().loadYAML(dctx, value)
		}
	}

	if c.ID == "" {
		return fmt.Errorf("component has no id: %w", ErrParse)
	}
	c.Releases().SetContext(dctx)
	return nil
}

// yamlNode returns the catalog YAML document mapping for this component.
func (c *Component) yamlNode(dctx *Context) (*yaml.Node, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}

	addScalar := func(key, value string) {
		if value == "" {
			return
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value})
	}
	addScalar("Type", c.Kind)
	addScalar("ID", c.ID)
	addScalar("Package", c.PkgName)
	addScalar("Name", c.Name)
	addScalar("Summary", c.Summary)

	if err := c.Releases().emitYAML(dctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}
