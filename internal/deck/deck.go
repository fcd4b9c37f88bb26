// Package deck loads curated practice item sets.
package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Errors returned by deck loading and selection.
var (
	ErrUnknownDeck = errors.New("unknown deck")
	ErrEmptyPool   = errors.New("no items selected")
)

// Deck is a named set of item groups.
type Deck struct {
	Name   string  `toml:"name"`
	Domain string  `toml:"domain"`
	Groups []Group `toml:"group"`
}

// Group is a set of items the user enables together.
type Group struct {
	Name  string `toml:"name"`
	Items []Item `toml:"items"`
}

// Item is a single prompt with its expected answer.
type Item struct {
	Prompt string   `toml:"prompt"`
	Answer string   `toml:"answer"`
	Alt    []string `toml:"alt"`
}

// Parse decodes a deck from TOML. name is used when the file has none.
func Parse(name string, data []byte) (*Deck, error) {
	var d Deck
	if _, err := toml.Decode(string(data), &d); err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	if d.Name == "" {
		d.Name = name
	}
	if d.Domain == "" {
		d.Domain = d.Name
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a deck file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d, err := Parse(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Resolve loads the named deck from dir, falling back to the built-in decks.
func Resolve(name, dir string) (*Deck, error) {
	if dir != "" {
		path := filepath.Join(dir, name+".toml")
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat deck: %w", err)
		}
	}
	return Builtin(name)
}

// List returns the names of built-in decks and decks found in dir.
func List(dir string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, name := range BuiltinNames() {
		seen[name] = struct{}{}
	}
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read deck directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
				continue
			}
			seen[strings.TrimSuffix(entry.Name(), ".toml")] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GroupNames returns the deck's group names in file order.
func (d *Deck) GroupNames() []string {
	names := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		names[i] = g.Name
	}
	return names
}

// Select builds a pool from the named groups. No groups selects all of them.
func (d *Deck) Select(groups []string) (Pool, error) {
	var chosen []Group
	if len(groups) == 0 {
		chosen = d.Groups
	} else {
		byName := make(map[string]Group, len(d.Groups))
		for _, g := range d.Groups {
			byName[g.Name] = g
		}
		for _, name := range groups {
			g, ok := byName[name]
			if !ok {
				return Pool{}, fmt.Errorf("deck %s has no group %q (available: %s)", d.Name, name, strings.Join(d.GroupNames(), ", "))
			}
			chosen = append(chosen, g)
		}
	}

	var items []Item
	seen := map[string]struct{}{}
	for _, g := range chosen {
		for _, it := range g.Items {
			if _, dup := seen[it.Prompt]; dup {
				continue
			}
			seen[it.Prompt] = struct{}{}
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return Pool{}, ErrEmptyPool
	}
	return Pool{items: items}, nil
}

func (d *Deck) validate() error {
	if d.Name == "" {
		return fmt.Errorf("deck has no name")
	}
	if len(d.Groups) == 0 {
		return fmt.Errorf("deck %s has no groups", d.Name)
	}
	prompts := map[string]string{}
	for _, g := range d.Groups {
		if g.Name == "" {
			return fmt.Errorf("deck %s has a group without a name", d.Name)
		}
		for _, it := range g.Items {
			if strings.TrimSpace(it.Prompt) == "" {
				return fmt.Errorf("deck %s group %s has an empty prompt", d.Name, g.Name)
			}
			if strings.TrimSpace(it.Answer) == "" {
				return fmt.Errorf("deck %s group %s: %q has no answer", d.Name, g.Name, it.Prompt)
			}
			if other, dup := prompts[it.Prompt]; dup {
				return fmt.Errorf("deck %s: %q appears in groups %s and %s", d.Name, it.Prompt, other, g.Name)
			}
			prompts[it.Prompt] = g.Name
		}
	}
	return nil
}
