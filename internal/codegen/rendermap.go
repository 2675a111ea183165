package codegen

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/txtar"
)

// DomainRenderMap prefixes render map digests.
// Bump the version suffix if the digest layout changes.
const DomainRenderMap = "idlcpp/rendermap/v1"

// RenderMap maps output paths, relative to the output directory, to file
// contents.
type RenderMap struct {
	files map[string]string
}

// NewRenderMap returns an empty map.
func NewRenderMap() *RenderMap {
	return &RenderMap{files: make(map[string]string)}
}

// Add stores content at path, replacing any previous content.
func (m *RenderMap) Add(path, content string) *RenderMap {
	m.files[path] = content
	return m
}

// MergeWith copies every file of others into m. A path already present in
// m, or provided twice by others, fails with ErrDuplicatePath and leaves m
// unchanged.
func (m *RenderMap) MergeWith(others ...*RenderMap) error {
	incoming := make(map[string]string)
	for _, o := range others {
		if o == nil {
			continue
		}
		for path, content := range o.files {
			_, inM := m.files[path]
			_, seen := incoming[path]
			if inM || seen {
				return errors.Mark(errors.Newf("%s rendered twice", path), ErrDuplicatePath)
			}
			incoming[path] = content
		}
	}
	for path, content := range incoming {
		m.files[path] = content
	}
	return nil
}

// Get returns the content at path.
func (m *RenderMap) Get(path string) (string, bool) {
	c, ok := m.files[path]
	return c, ok
}

// Has reports whether path is present.
func (m *RenderMap) Has(path string) bool {
	_, ok := m.files[path]
	return ok
}

// Len returns the number of files.
func (m *RenderMap) Len() int { return len(m.files) }

// Paths returns every path in sorted order.
func (m *RenderMap) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Digest is a content hash of the whole map.
// Format: SHA256(domain + 0x00 + (path + 0x00 + content + 0x00)...) over
// sorted paths.
func (m *RenderMap) Digest() string {
	h := sha256.New()
	h.Write([]byte(DomainRenderMap))
	h.Write([]byte{0x00})
	for _, p := range m.Paths() {
		h.Write([]byte(p))
		h.Write([]byte{0x00})
		h.Write([]byte(m.files[p]))
		h.Write([]byte{0x00})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Archive returns the map as a txtar archive with files in path order.
func (m *RenderMap) Archive() *txtar.Archive {
	a := &txtar.Archive{}
	for _, p := range m.Paths() {
		content := m.files[p]
		if content != "" && content[len(content)-1] != '\n' {
			content += "\n"
		}
		a.Files = append(a.Files, txtar.File{Name: p, Data: []byte(content)})
	}
	return a
}
