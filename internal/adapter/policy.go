package adapter

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy restricts path inputs to a set of allowed roots expressed as
// doublestar globs ("/srv/sites/**"). An empty policy allows every path.
type Policy struct {
	mu       sync.RWMutex
	patterns []string
}

func NewPolicy(patterns []string) (*Policy, error) {
	p := &Policy{}
	if err := p.Set(patterns); err != nil {
		return nil, err
	}
	return p, nil
}

// Set replaces the allowed patterns. Invalid patterns are rejected and the
// previous set is kept.
func (p *Policy) Set(patterns []string) error {
	clean := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid allowed root pattern %q", pattern)
		}
		clean = append(clean, pattern)
	}

	p.mu.Lock()
	p.patterns = clean
	p.mu.Unlock()
	return nil
}

func (p *Policy) Patterns() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.patterns...)
}

// Allow reports an error when path falls outside every allowed root.
func (p *Policy) Allow(path string) error {
	if p == nil {
		return nil
	}

	p.mu.RLock()
	patterns := p.patterns
	p.mu.RUnlock()

	if len(patterns) == 0 {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	target := filepath.ToSlash(filepath.Clean(abs))

	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, target); ok {
			return nil
		}
	}
	return fmt.Errorf("path %q is outside the allowed roots", path)
}

func (p *Policy) check(schema Schema, in Input) error {
	for name, prop := range schema.Properties {
		if !prop.IsPath {
			continue
		}
		value := in.String(name)
		if value == "" {
			continue
		}
		if err := p.Allow(value); err != nil {
			return err
		}
	}
	return nil
}
