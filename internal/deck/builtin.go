package deck

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed decks/*.toml
var builtinFS embed.FS

// BuiltinNames returns the names of the decks shipped with the binary.
func BuiltinNames() []string {
	entries, err := builtinFS.ReadDir("decks")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// Builtin returns the built-in deck with the given name.
func Builtin(name string) (*Deck, error) {
	data, err := builtinFS.ReadFile(path.Join("decks", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownDeck, name, strings.Join(BuiltinNames(), ", "))
	}
	return Parse(name, data)
}
