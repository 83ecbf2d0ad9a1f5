package skin

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/skinkit/internal/action"
)

// Key is a key press with modifiers. Key holds a lower case key name such as
// "f1" or "escape", or a single character.
type Key struct {
	Name  string
	Ctrl  bool
	Shift bool
	Alt   bool
}

// String renders k the way terminal key events are spelled, e.g.
// "ctrl+shift+f1".
func (k Key) String() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("ctrl+")
	}
	if k.Alt {
		b.WriteString("alt+")
	}
	if k.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(k.Name)
	return b.String()
}

var keyNames = map[string]string{
	"ESCAPE": "escape", "ENTER": "enter", "TAB": "tab", "SPACE": "space",
	"BACKSPACE": "backspace", "DELETE": "delete", "INSERT": "insert",
	"HOME": "home", "END": "end", "PAGE_UP": "pgup", "PAGE_DOWN": "pgdown",
	"UP": "up", "DOWN": "down", "LEFT": "left", "RIGHT": "right",
}

func init() {
	for i := 1; i <= 12; i++ {
		keyNames[fmt.Sprintf("F%d", i)] = fmt.Sprintf("f%d", i)
	}
}

var modifiers = map[string]func(*Key){
	"CTRL":  func(k *Key) { k.Ctrl = true },
	"SHIFT": func(k *Key) { k.Shift = true },
	"ALT":   func(k *Key) { k.Alt = true },
}

// ParseKey parses a key spec: optional "ctrl+", "shift+" and "alt+"
// prefixes followed by a key name or a quoted character like 'a'.
func ParseKey(spec string) (Key, error) {
	var k Key
	rest := spec
	for {
		mod, tail, ok := strings.Cut(rest, "+")
		if !ok || tail == "" {
			break
		}
		set, known := modifiers[strings.ToUpper(mod)]
		if !known {
			break
		}
		set(&k)
		rest = tail
	}
	if r := []rune(rest); len(r) == 3 && r[0] == '\'' && r[2] == '\'' {
		k.Name = string(r[1])
		return k, nil
	}
	name, ok := keyNames[strings.ToUpper(rest)]
	if !ok {
		return Key{}, fmt.Errorf("invalid key '%s'", spec)
	}
	k.Name = name
	return k, nil
}

// KeyBindings maps keys to command lists.
type KeyBindings struct {
	bindings map[Key]*action.CommandList
	order    []Key
}

// NewKeyBindings returns an empty table.
func NewKeyBindings() *KeyBindings {
	return &KeyBindings{bindings: map[Key]*action.CommandList{}}
}

// Add binds k. A key can be bound once per table.
func (kb *KeyBindings) Add(k Key, l *action.CommandList) error {
	if _, ok := kb.bindings[k]; ok {
		return fmt.Errorf("key '%s' is bound more than once", k)
	}
	kb.bindings[k] = l
	kb.order = append(kb.order, k)
	return nil
}

// Lookup returns the command list bound to k.
func (kb *KeyBindings) Lookup(k Key) (*action.CommandList, bool) {
	if kb == nil {
		return nil, false
	}
	l, ok := kb.bindings[k]
	return l, ok
}

// Keys returns the bound keys in declaration order.
func (kb *KeyBindings) Keys() []Key {
	if kb == nil {
		return nil
	}
	return append([]Key(nil), kb.order...)
}

// Len is the number of bindings.
func (kb *KeyBindings) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.order)
}
