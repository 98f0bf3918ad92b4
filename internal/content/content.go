package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"manual-estoico-landing/internal/core"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the marketing copy of the sales page
type Catalog struct {
	LogoURL       string `yaml:"logo_url"`
	BackgroundURL string `yaml:"background_url"`
	Price         string `yaml:"price"`
	OldPrice      string `yaml:"old_price"`
	BonusTotal    string `yaml:"bonus_total"`
	Particles     int    `yaml:"particles"`

	ProductItems    []string       `yaml:"product_items"`
	Benefits        []Benefit      `yaml:"benefits"`
	Stats           []Stat         `yaml:"stats"`
	Modules         []Module       `yaml:"modules"`
	Bonuses         []Bonus        `yaml:"bonuses"`
	PricingFeatures []string       `yaml:"pricing_features"`
	Included        []IncludedItem `yaml:"included"`
	Testimonials    []Testimonial  `yaml:"testimonials"`
	Guarantee       []Paragraph    `yaml:"guarantee"`
	FAQ             []FAQ          `yaml:"faq"`
	PathStay        []string       `yaml:"path_stay"`
	PathChange      []string       `yaml:"path_change"`
}

type Benefit struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Module is one expandable entry of the course outline
type Module struct {
	Number      int      `yaml:"number"`
	Icon        string   `yaml:"icon"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Lessons     []string `yaml:"lessons"`
}

// Bonus is one revealable bonus card
type Bonus struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Value       string `yaml:"value"`
}

type IncludedItem struct {
	Marker      string `yaml:"marker"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Testimonial struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Image string `yaml:"image"`
	Text  string `yaml:"text"`
}

// Paragraph is a block of text with an optional emphasized lead
type Paragraph struct {
	Highlight string `yaml:"highlight"`
	Text      string `yaml:"text"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the compiled-in one when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog against the widgets that render it
func (c *Catalog) Validate() error {
	if len(c.Bonuses) != core.BonusSlots {
		return fmt.Errorf("catalog has %d bonuses, want %d", len(c.Bonuses), core.BonusSlots)
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("catalog has no modules")
	}
	for i, m := range c.Modules {
		if m.Title == "" || len(m.Lessons) == 0 {
			return fmt.Errorf("module %d needs a title and at least one lesson", i+1)
		}
	}
	if len(c.FAQ) == 0 {
		return fmt.Errorf("catalog has no FAQ entries")
	}
	if c.BonusTotal == "" || c.Price == "" {
		return fmt.Errorf("catalog must set price and bonus_total")
	}
	if c.Particles < 0 {
		return fmt.Errorf("particles must not be negative")
	}
	return nil
}
