package handler

import (
	"errors"
	"strings"
)

// ErrNoHandler is returned when no registered constructor matches and
// even the "base" fallback is unavailable (which should never happen,
// since the registry map is initialized with DefaultName already in it).
var ErrNoHandler = errors.New("handler: no matching profile")

// DefaultName is the registry key Base is installed under, and the last
// candidate Resolve ever falls back to.
const DefaultName = "base"

// Constructor builds a Handler bound to t.
type Constructor func(t Transport) Handler

var registry = map[string]Constructor{
	DefaultName: func(t Transport) Handler { return NewBase(t) },
}

// Register installs ctor under name (case-insensitive). A second
// Register under the same name replaces the first.
func Register(name string, ctor Constructor) {
	registry[strings.ToLower(name)] = ctor
}

// Resolve picks a Handler for (manufacturer, model, alias), trying in
// order: "Base_<alias>", "Base_<manufacturer>_<model>",
// "Base_<manufacturer>", "Base". Matching is case-insensitive; the first
// name with a registered constructor wins.
func Resolve(manufacturer, model, alias string, t Transport) (Handler, error) {
	for _, name := range candidates(manufacturer, model, alias) {
		if ctor, ok := registry[strings.ToLower(name)]; ok {
			if h := ctor(t); h != nil {
				return h, nil
			}
		}
	}
	return nil, ErrNoHandler
}

func candidates(manufacturer, model, alias string) []string {
	var out []string
	if alias != "" {
		out = append(out, DefaultName+"_"+alias)
	}
	if manufacturer != "" && model != "" {
		out = append(out, DefaultName+"_"+manufacturer+"_"+model)
	}
	if manufacturer != "" {
		out = append(out, DefaultName+"_"+manufacturer)
	}
	out = append(out, DefaultName)
	return out
}
