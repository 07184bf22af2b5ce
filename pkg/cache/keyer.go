package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Entry kinds. Every key produced by a [Keyer] contains exactly one of them
// as a colon-separated segment.
const (
	KindDiagram  = "diagram"
	KindLayout   = "layout"
	KindArtifact = "artifact"
	KindLayoutID = "layout-id"
)

// Hash returns the hex SHA-256 digest of data. Diagram sources and
// serialized layouts are identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// digestKey returns kind:Hash(parts) with parts encoded as JSON.
func digestKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = []byte(fmt.Sprint(parts...))
	}
	return kind + ":" + Hash(data)
}

// kindOf returns the entry kind named in key, or "misc" for keys that were
// not built by a Keyer.
func kindOf(key string) string {
	for _, seg := range strings.Split(key, ":") {
		switch seg {
		case KindDiagram, KindLayout, KindArtifact, KindLayoutID:
			return seg
		}
	}
	return "misc"
}

// Keyer generates cache keys.
type Keyer interface {
	// DiagramKey identifies a parsed diagram by the hash of its source.
	DiagramKey(format, sourceHash string) string

	// LayoutKey identifies a computed layout.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// LayoutIDKey identifies a layout stored under an ID issued by the
	// HTTP service.
	LayoutIDKey(id string) string
}

// LayoutKeyOpts are the options that change a layout result.
type LayoutKeyOpts struct {
	HorizontalGap      float64    `json:"hgap"`
	VerticalGap        float64    `json:"vgap"`
	OrderingIterations int        `json:"iter"`
	Insets             [4]float64 `json:"insets"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Theme       string  `json:"theme,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	EdgeLabels  bool    `json:"edge_labels,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) DiagramKey(format, sourceHash string) string {
	return KindDiagram + ":" + format + ":" + sourceHash
}

func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return digestKey(KindLayout, diagramHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return digestKey(KindArtifact, layoutHash, opts)
}

func (DefaultKeyer) LayoutIDKey(id string) string {
	return KindLayoutID + ":" + id
}

var _ Keyer = DefaultKeyer{}
