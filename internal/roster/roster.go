// Package roster loads and validates the participant list for a gift
// exchange. The roster file is a YAML mapping from participant name to a
// phone number and an optional exclude list:
//
//	Alice:
//	  phone: "234-567-8901"
//	  exclude: Bob, Carol
//	Bob:
//	  phone: "234-567-8902"
//
// Document order matters: assignment processes givers in the order they
// appear in the file, so Roster preserves it.
package roster

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Participant is a single roster entry.
type Participant struct {
	// Phone is the raw number as written in the file; normalization to
	// E.164 happens at dispatch time.
	Phone string `yaml:"phone" validate:"required"`

	// Exclude lists other participants this person must never draw,
	// separated by commas and/or spaces. The restriction is directional:
	// it limits who this person can draw, not who can draw them.
	Exclude string `yaml:"exclude,omitempty"`
}

// Exclusions returns the parsed exclude list.
func (p Participant) Exclusions() []string {
	return strings.FieldsFunc(p.Exclude, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// Roster is the ordered set of participants for one exchange.
type Roster struct {
	names        []string
	participants map[string]Participant
}

// UnmarshalYAML decodes the top-level mapping while recording key order,
// which yaml.v3 map decoding would discard.
func (r *Roster) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("roster must be a mapping of participant names, got %s", nodeKind(node.Kind))
	}

	r.names = make([]string, 0, len(node.Content)/2)
	r.participants = make(map[string]Participant, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value
		if _, dup := r.participants[name]; dup {
			return fmt.Errorf("duplicate participant %q (line %d)", name, key.Line)
		}

		var p Participant
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("participant %q: %w", name, err)
		}

		r.names = append(r.names, name)
		r.participants[name] = p
	}
	return nil
}

// Names returns participant names in document order. The caller must not
// mutate the returned slice.
func (r *Roster) Names() []string { return r.names }

// Get looks up a participant by name.
func (r *Roster) Get(name string) (Participant, bool) {
	p, ok := r.participants[name]
	return p, ok
}

// Len returns the number of participants.
func (r *Roster) Len() int { return len(r.names) }

// Load reads and validates a roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates roster YAML.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	if r.Len() < 2 {
		return nil, fmt.Errorf("need at least 2 participants, got %d", r.Len())
	}

	for _, name := range r.names {
		p := r.participants[name]
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("participant %q: missing phone", name)
		}
		for _, excluded := range p.Exclusions() {
			if _, ok := r.participants[excluded]; !ok {
				return nil, fmt.Errorf("participant %q excludes unknown participant %q", name, excluded)
			}
			if excluded == name {
				return nil, fmt.Errorf("participant %q excludes themselves", name)
			}
		}
	}
	return &r, nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
