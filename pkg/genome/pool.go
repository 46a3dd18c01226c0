package genome

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mutualist/evoprompt/pkg/errors"
)

// FragmentPool is the fixed catalog of instruction fragments that genomes
// address by integer index, plus the categorical gene catalogs. The pool is
// immutable after construction; genomes only ever reference it, never own it.
type FragmentPool struct {
	fragments []string
	roles     []string
	formats   []string
	tones     []string
}

// defaultFragments is the built-in instruction catalog.
var defaultFragments = []string{
	"Be concise and direct",
	"Use practical examples",
	"Think step-by-step (Chain of Thought)",
	"Be empathetic and kind",
	"Prioritize technical precision",
	"Use Markdown formatting",
	"Use JSON formatting",
	"Act as a senior expert",
	"Act as a patient tutor",
	"Provide constructive criticism",
}

var (
	defaultRoles   = []string{"expert", "tutor", "critic", "assistant"}
	defaultFormats = []string{"markdown", "json", "plain_text", "bullet_points"}
	defaultTones   = []string{"clinical", "friendly", "formal", "casual"}
)

// NewFragmentPool builds a pool from an explicit instruction catalog.
func NewFragmentPool(fragments []string) (*FragmentPool, error) {
	if len(fragments) == 0 {
		return nil, errors.New(errors.InvalidInput, "fragment pool must not be empty")
	}
	return &FragmentPool{
		fragments: append([]string(nil), fragments...),
		roles:     defaultRoles,
		formats:   defaultFormats,
		tones:     defaultTones,
	}, nil
}

// DefaultPool returns the built-in instruction catalog.
func DefaultPool() *FragmentPool {
	p, _ := NewFragmentPool(defaultFragments)
	return p
}

// poolFile is the YAML shape of an external catalog.
type poolFile struct {
	Fragments []string `yaml:"fragments"`
	Roles     []string `yaml:"roles,omitempty"`
	Formats   []string `yaml:"formats,omitempty"`
	Tones     []string `yaml:"tones,omitempty"`
}

// LoadPool reads a fragment catalog from a YAML file. Missing categorical
// catalogs fall back to the built-in defaults.
func LoadPool(path string) (*FragmentPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to read fragment catalog")
	}

	var pf poolFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse fragment catalog")
	}

	pool, err := NewFragmentPool(pf.Fragments)
	if err != nil {
		return nil, errors.WithFields(err, errors.Fields{"path": path})
	}
	if len(pf.Roles) > 0 {
		pool.roles = pf.Roles
	}
	if len(pf.Formats) > 0 {
		pool.formats = pf.Formats
	}
	if len(pf.Tones) > 0 {
		pool.tones = pf.Tones
	}
	return pool, nil
}

// Len returns the number of instruction fragments in the catalog.
func (p *FragmentPool) Len() int {
	return len(p.fragments)
}

// Instruction retrieves an instruction by index, falling back to the first
// entry for out-of-range indices.
func (p *FragmentPool) Instruction(index int) string {
	if index >= 0 && index < len(p.fragments) {
		return p.fragments[index]
	}
	return p.fragments[0]
}

// Fragments returns a copy of the instruction catalog.
func (p *FragmentPool) Fragments() []string {
	return append([]string(nil), p.fragments...)
}

// Roles returns a copy of the role catalog.
func (p *FragmentPool) Roles() []string {
	return append([]string(nil), p.roles...)
}

// Formats returns a copy of the output format catalog.
func (p *FragmentPool) Formats() []string {
	return append([]string(nil), p.formats...)
}

// Tones returns a copy of the tone catalog.
func (p *FragmentPool) Tones() []string {
	return append([]string(nil), p.tones...)
}
