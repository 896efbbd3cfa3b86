package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/agentgraph/core"
)

// CardURIPrefix prefixes the resource URI of every loaded card.
const CardURIPrefix = "resource://agent_cards/"

// Skill is a capability advertised by an agent card.
type Skill struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Capabilities lists optional protocol features of an agent.
type Capabilities struct {
	Streaming         bool `json:"streaming" yaml:"streaming"`
	PushNotifications bool `json:"pushNotifications,omitempty" yaml:"pushNotifications,omitempty"`
}

// Card is an A2A agent card as stored in the card corpus.
type Card struct {
	Name               string       `json:"name" yaml:"name"`
	Description        string       `json:"description" yaml:"description"`
	URL                string       `json:"url" yaml:"url"`
	Version            string       `json:"version,omitempty" yaml:"version,omitempty"`
	Capabilities       Capabilities `json:"capabilities" yaml:"capabilities"`
	DefaultInputModes  []string     `json:"defaultInputModes,omitempty" yaml:"defaultInputModes,omitempty"`
	DefaultOutputModes []string     `json:"defaultOutputModes,omitempty" yaml:"defaultOutputModes,omitempty"`
	Skills             []Skill      `json:"skills,omitempty" yaml:"skills,omitempty"`

	// URI identifies the card inside the corpus. It is derived from the file
	// name when loaded from disk.
	URI string `json:"-" yaml:"-"`
}

// Stem returns the last path element of the card URI, or the card name.
func (c Card) Stem() string {
	if c.URI != "" {
		return c.URI[strings.LastIndex(c.URI, "/")+1:]
	}
	return c.Name
}

// Descriptor converts the card into the descriptor handed to invokers.
func (c Card) Descriptor() *core.AgentDescriptor {
	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		name := s.Name
		if name == "" {
			name = s.ID
		}
		skills = append(skills, name)
	}
	return &core.AgentDescriptor{
		Name:        c.Name,
		Description: c.Description,
		URL:         c.URL,
		Version:     c.Version,
		Skills:      skills,
		Streaming:   c.Capabilities.Streaming,
		URI:         c.URI,
	}
}

// Text returns the searchable text of the card: name, description and skills.
func (c Card) Text() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("\n")
	b.WriteString(c.Description)
	for _, s := range c.Skills {
		b.WriteString("\n")
		b.WriteString(s.Name)
		b.WriteString(" ")
		b.WriteString(s.Description)
		if len(s.Tags) > 0 {
			b.WriteString(" ")
			b.WriteString(strings.Join(s.Tags, " "))
		}
		for _, ex := range s.Examples {
			b.WriteString(" ")
			b.WriteString(ex)
		}
	}
	return b.String()
}

// ParseCard decodes a JSON or YAML card. ext selects the format (".json",
// ".yaml" or ".yml").
func ParseCard(data []byte, ext string) (Card, error) {
	var c Card
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	default:
		return c, fmt.Errorf("unsupported card format %q", ext)
	}
	if err != nil {
		return c, err
	}
	if c.Name == "" {
		return c, fmt.Errorf("card has no name")
	}
	return c, nil
}

// LoadCards reads every *.json, *.yaml and *.yml card in dir, sorted by file
// name. Each card gets the URI resource://agent_cards/<file stem>.
func LoadCards(dir string) ([]Card, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read card dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	cards := make([]Card, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read card %s: %w", name, err)
		}
		ext := filepath.Ext(name)
		c, err := ParseCard(data, ext)
		if err != nil {
			return nil, fmt.Errorf("parse card %s: %w", name, err)
		}
		c.URI = CardURIPrefix + strings.TrimSuffix(name, ext)
		cards = append(cards, c)
	}
	return cards, nil
}
