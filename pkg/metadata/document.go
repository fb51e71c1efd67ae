package metadata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/catalog/internal/output"
)

// xmlCatalog is the XML wire form of a multi-component catalog document.
type xmlCatalog struct {
	XMLName    xml.Name       `xml:"components"`
	Version    string         `xml:"version,attr,omitempty"`
	Origin     string         `xml:"origin,attr,omitempty"`
	Components []xmlComponent `xml:"component"`
}

// catalogXMLVersion is the format version written to emitted catalogs.
const catalogXMLVersion = "1.0"

// ParseComponents parses a catalog XML document into a checked component
// collection attached to dctx.
//
// Components without an identity and components whose identity is already
// present are skipped with a warning; a malformed document is an ErrParse
// failure.
func ParseComponents(dctx *Context, data []byte) (*ComponentCollection, error) {
	var doc xmlCatalog
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse catalog data: %v: %w", err, ErrParse)
	}

	if dctx.Origin == "" {
		dctx.Origin = doc.Origin
	}

	cc := NewComponentCollection(CollectionOptions{})
	for i := range doc.Components {
		cpt := NewComponent()
		if err := cpt.loadXML(dctx, &doc.Components[i]); err != nil {
			output.Warn("skipping invalid catalog component", "error", err)
			continue
		}
		if err := cc.Add(cpt); err != nil {
			output.Warn("skipping duplicate catalog component", "id", cpt.DataID())
		}
	}
	return cc, nil
}

// ParseMetainfo parses a single-component metainfo XML document.
func ParseMetainfo(dctx *Context, data []byte) (*Component, error) {
	var node xmlComponent
	if err := xml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unable to parse metainfo data: %v: %w", err, ErrParse)
	}

	cpt := NewComponent()
	if err := cpt.loadXML(dctx, &node); err != nil {
		return nil, err
	}
	return cpt, nil
}

// ParseYAML parses a catalog YAML stream into a checked component
// collection attached to dctx. The stream may start with a DEP-11 style
// header document declaring the origin and media base URL, which is
// applied to dctx before the component documents are read.
func ParseYAML(dctx *Context, data []byte) (*ComponentCollection, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	cc := NewComponentCollection(CollectionOptions{})

	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse catalog YAML data: %v: %w", err, ErrParse)
		}

		if applyYAMLHeader(dctx, &node) {
			continue
		}

		cpt := NewComponent()
		if err := cpt.loadYAML(dctx, &node); err != nil {
			output.Warn("skipping invalid catalog component", "error", err)
			continue
		}
		if err := cc.Add(cpt); err != nil {
			output.Warn("skipping duplicate catalog component", "id", cpt.DataID())
		}
	}
	return cc, nil
}

// applyYAMLHeader detects a catalog YAML header document and, if found,
// applies its origin and media base URL to dctx.
func applyYAMLHeader(dctx *Context, node *yaml.Node) bool {
	mapping := node
	if mapping.Kind == yaml.DocumentNode && len(mapping.Content) == 1 {
		mapping = mapping.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return false
	}

	isHeader := false
	origin := ""
	mediaBase := ""
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		switch mapping.Content[i].Value {
		case "File":
			isHeader = true
		case "Origin":
			origin = mapping.Content[i+1].Value
		case "MediaBaseUrl":
			mediaBase = mapping.Content[i+1].Value
		}
	}
	if !isHeader {
		return false
	}

	if dctx.Origin == "" {
		dctx.Origin = origin
	}
	if dctx.MediaBaseURL == "" {
		dctx.MediaBaseURL = mediaBase
	}
	return true
}

// EmitXML serializes the collection as a catalog XML document. Components
// are sorted by identity first so output is deterministic.
func EmitXML(dctx *Context, cc *ComponentCollection) ([]byte, error) {
	cc.SortByID()

	doc := xmlCatalog{
		Version: catalogXMLVersion,
		Origin:  dctx.Origin,
	}
	for _, cpt := range cc.Components() {
		doc.Components = append(doc.Components, *cpt.xmlNode(dctx))
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing catalog: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// EmitMetainfoXML serializes one component as a metainfo XML document.
func EmitMetainfoXML(dctx *Context, cpt *Component) ([]byte, error) {
	body, err := xml.MarshalIndent(cpt.xmlNode(dctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing metainfo: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// EmitYAML serializes the collection as a catalog YAML stream: a header
// document followed by one document per component, sorted by identity.
func EmitYAML(dctx *Context, cc *ComponentCollection) ([]byte, error) {
	cc.SortByID()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	header := &yaml.Node{Kind: yaml.MappingNode}
	addHeaderKey := func(key, value string) {
		if value == "" {
			return
		}
		header.Content = append(header.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: value})
	}
	addHeaderKey("File", "DEP-11")
	addHeaderKey("Version", "0.16")
	addHeaderKey("Origin", dctx.Origin)
	addHeaderKey("MediaBaseUrl", dctx.MediaBaseURL)
	if err := enc.Encode(header); err != nil {
		return nil, fmt.Errorf("serializing catalog header: %w", err)
	}

	for _, cpt := range cc.Components() {
		node, err := cpt.yamlNode(dctx)
		if err != nil {
			return nil, fmt.Errorf("serializing component %s: %w", cpt.DataID(), err)
		}
		if err := enc.Encode(node); err != nil {
			return nil, fmt.Errorf("serializing component %s: %w", cpt.DataID(), err)
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serializing catalog: %w", err)
	}
	return buf.Bytes(), nil
}
