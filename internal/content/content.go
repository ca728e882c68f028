// Package content holds the portfolio data rendered into each section.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Its-donkey/portfolio/internal/scrollspy"
)

//go:embed default.yaml
var defaultYAML []byte

// Owner is the person the site is about.
type Owner struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title" json:"title"`
	Tagline  string `yaml:"tagline" json:"tagline"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	Resume   string `yaml:"resume,omitempty" json:"resume,omitempty"`
}

// NavItem is one navigation entry. ID must be a section anchor.
type NavItem struct {
	Label string `yaml:"label" json:"label"`
	ID    string `yaml:"id" json:"id"`
}

// Skill is a single skill bar.
type Skill struct {
	Name  string `yaml:"name" json:"name"`
	Level int    `yaml:"level" json:"level"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// SkillCategory groups skills under one card.
type SkillCategory struct {
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	Skills      []Skill `yaml:"skills" json:"skills"`
}

// Stat is a headline number in the skills section.
type Stat struct {
	Number string `yaml:"number" json:"number"`
	Label  string `yaml:"label" json:"label"`
}

// Project is one project card.
type Project struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image,omitempty" json:"image,omitempty"`
	Tags        []string `yaml:"tags" json:"tags"`
	LiveURL     string   `yaml:"live_url,omitempty" json:"liveUrl,omitempty"`
	GithubURL   string   `yaml:"github_url,omitempty" json:"githubUrl,omitempty"`
	Featured    bool     `yaml:"featured" json:"featured"`
	Category    string   `yaml:"category" json:"category"`
}

// JourneyStep is one entry on the about timeline.
type JourneyStep struct {
	Year        string `yaml:"year" json:"year"`
	Title       string `yaml:"title" json:"title"`
	Company     string `yaml:"company" json:"company"`
	Description string `yaml:"description" json:"description"`
}

// Passion is a short interest card in the about section.
type Passion struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Link is a named outbound link.
type Link struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// ContactInfo is one line of the contact details card.
type ContactInfo struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
	Href  string `yaml:"href,omitempty" json:"href,omitempty"`
}

// Portfolio is everything the page renders apart from the contact form.
type Portfolio struct {
	Owner       Owner           `yaml:"owner" json:"owner"`
	Nav         []NavItem       `yaml:"nav" json:"nav"`
	Skills      []SkillCategory `yaml:"skills" json:"skills"`
	TechStack   []string        `yaml:"tech_stack" json:"techStack"`
	Stats       []Stat          `yaml:"stats" json:"stats"`
	Projects    []Project       `yaml:"projects" json:"projects"`
	Journey     []JourneyStep   `yaml:"journey" json:"journey"`
	Passions    []Passion       `yaml:"passions" json:"passions"`
	Social      []Link          `yaml:"social" json:"social"`
	ContactInfo []ContactInfo   `yaml:"contact_info" json:"contactInfo"`
}

// Default returns the portfolio bundled with the binary.
func Default() (*Portfolio, error) {
	p, err := Decode(bytes.NewReader(defaultYAML))
	if err != nil {
		return nil, fmt.Errorf("default content: %w", err)
	}
	return p, nil
}

// Load reads and validates a YAML portfolio file.
func Load(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	defer f.Close()
	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return p, nil
}

// Decode parses YAML from r, rejecting unknown keys, and validates the result.
func Decode(r io.Reader) (*Portfolio, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Portfolio
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty content file")
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the navigation contract and the data ranges.
func (p *Portfolio) Validate() error {
	var problems []string

	if strings.TrimSpace(p.Owner.Name) == "" {
		problems = append(problems, "owner.name is required")
	}

	if len(p.Nav) != len(scrollspy.Sections) {
		problems = append(problems, fmt.Sprintf("nav must list %d sections, got %d", len(scrollspy.Sections), len(p.Nav)))
	} else {
		for i, item := range p.Nav {
			if item.ID != scrollspy.Sections[i] {
				problems = append(problems, fmt.Sprintf("nav[%d] id %q, want %q", i, item.ID, scrollspy.Sections[i]))
			}
			if strings.TrimSpace(item.Label) == "" {
				problems = append(problems, fmt.Sprintf("nav[%d] label is required", i))
			}
		}
	}

	for _, cat := range p.Skills {
		for _, s := range cat.Skills {
			if s.Level < 0 || s.Level > 100 {
				problems = append(problems, fmt.Sprintf("skill %q level %d outside 0..100", s.Name, s.Level))
			}
		}
	}

	seen := make(map[int]bool, len(p.Projects))
	for _, proj := range p.Projects {
		if seen[proj.ID] {
			problems = append(problems, fmt.Sprintf("duplicate project id %d", proj.ID))
		}
		seen[proj.ID] = true
		if strings.TrimSpace(proj.Title) == "" {
			problems = append(problems, fmt.Sprintf("project %d title is required", proj.ID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid content: %s", strings.Join(problems, "; "))
	}
	return nil
}

// FeaturedProjects returns the projects flagged as featured, in file order.
func (p *Portfolio) FeaturedProjects() []Project {
	var out []Project
	for _, proj := range p.Projects {
		if proj.Featured {
			out = append(out, proj)
		}
	}
	return out
}

// HasLink reports whether url points somewhere. "#" and "" are placeholders.
func HasLink(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != "#"
}
