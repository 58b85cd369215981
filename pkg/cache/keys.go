package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key prefixes. A key is "<prefix>:<sha256 hex>", optionally preceded by
// a namespace.
const (
	PrefixLayout   = "layout"
	PrefixArtifact = "artifact"
)

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a resolved layout document.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists the options that change a layout.
type LayoutKeyOpts struct {
	Strategy    string   `json:"strategy"`
	Palette     []string `json:"palette"`
	ShowHeaders bool     `json:"show_headers"`
	Merge       bool     `json:"merge"`
	// Metrics is any JSON-serializable description of the pixel metrics.
	Metrics any `json:"metrics"`
}

// ArtifactKeyOpts lists the options that change a rendered output.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Scale       float64 `json:"scale,omitempty"`
	Background  string  `json:"background,omitempty"`
	GridLines   bool    `json:"grid_lines,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
}

// NewKeyer returns the default keyer, with every key placed under
// namespace when it is not empty. Deployments sharing one Redis or Mongo
// backend use distinct namespaces to keep their entries apart.
func NewKeyer(namespace string) Keyer {
	if namespace == "" {
		return DefaultKeyer{}
	}
	return namespaced{inner: DefaultKeyer{}, ns: namespace + ":"}
}

// DefaultKeyer hashes its inputs into prefixed SHA-256 keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return PrefixLayout + ":" + mustHashJSON(inputHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return PrefixArtifact + ":" + mustHashJSON(layoutHash, opts)
}

type namespaced struct {
	inner Keyer
	ns    string
}

func (k namespaced) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return k.ns + k.inner.LayoutKey(inputHash, opts)
}

func (k namespaced) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.ns + k.inner.ArtifactKey(layoutHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Hash(data), nil
}

// mustHashJSON hashes key parts, which are plain data and always encode.
func mustHashJSON(parts ...any) string {
	h, err := HashJSON(parts)
	if err != nil {
		panic(err)
	}
	return h
}
