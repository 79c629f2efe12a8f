// Package catalog serves the interview question bank from YAML.
//
// The default bank is embedded in the binary; a file on disk can replace it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-mock-interview/internal/domain"
)

//go:embed questions.yaml
var defaultQuestions []byte

type catalogYAML struct {
	Domains map[string][]domain.Question `yaml:"domains"`
}

// Catalog is an immutable, validated question bank.
type Catalog struct {
	domains   []string
	questions map[string][]domain.Question
}

// Default returns the embedded question bank.
func Default() (*Catalog, error) { return Parse(defaultQuestions) }

// Load reads a question bank from path, or the embedded bank when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("questions file not found: %s", path)
		}
		return nil, fmt.Errorf("op=catalog.load: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates a YAML question bank. Every domain must be supported and
// question IDs must be unique within it.
func Parse(b []byte) (*Catalog, error) {
	var doc catalogYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	if len(doc.Domains) == 0 {
		return nil, errors.New("no domains defined")
	}
	c := &Catalog{questions: make(map[string][]domain.Question, len(doc.Domains))}
	for name, qs := range doc.Domains {
		if !domain.IsSupportedDomain(name) {
			return nil, fmt.Errorf("unsupported domain %q", name)
		}
		seen := make(map[string]struct{}, len(qs))
		for i, q := range qs {
			if q.ID == "" || strings.TrimSpace(q.Text) == "" {
				return nil, fmt.Errorf("domain %q: question %d needs id and question", name, i)
			}
			if !domain.IsSupportedDifficulty(q.Difficulty) {
				return nil, fmt.Errorf("domain %q: question %q has unsupported difficulty %q", name, q.ID, q.Difficulty)
			}
			if _, dup := seen[q.ID]; dup {
				return nil, fmt.Errorf("domain %q: duplicate question id %q", name, q.ID)
			}
			seen[q.ID] = struct{}{}
		}
		c.questions[name] = qs
	}
	for _, d := range domain.Domains {
		if _, ok := c.questions[d]; ok {
			c.domains = append(c.domains, d)
		}
	}
	return c, nil
}

// Domains lists the domains present in the bank, in display order.
func (c *Catalog) Domains() []string {
	out := make([]string, len(c.domains))
	copy(out, c.domains)
	return out
}

// Questions returns a copy of the questions for d.
func (c *Catalog) Questions(d string) ([]domain.Question, error) {
	qs, ok := c.questions[d]
	if !ok {
		return nil, fmt.Errorf("%w: no questions found for domain: %s", domain.ErrNotFound, d)
	}
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out, nil
}
