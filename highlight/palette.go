package highlight

import "github.com/zjrosen/tokstore/tokens"

// Palette interns theme colors into the small integer ids carried in token
// metadata. Ids 1 and 2 are the theme's default foreground and background;
// interned colors start at 3.
type Palette struct {
	ids    map[string]tokens.ColorID
	colors []string // indexed by ColorID; index 0 unused
}

// NewPalette creates a palette with the given default colors pre-registered.
func NewPalette(defaultForeground, defaultBackground string) *Palette {
	p := &Palette{
		ids:    make(map[string]tokens.ColorID),
		colors: []string{"", defaultForeground, defaultBackground},
	}
	p.ids[defaultForeground] = tokens.DefaultForeground
	p.ids[defaultBackground] = tokens.DefaultBackground
	return p
}

// Intern returns the id for a hex color, assigning a new one on first use.
// The empty string maps to the default foreground.
func (p *Palette) Intern(hex string) tokens.ColorID {
	if hex == "" {
		return tokens.DefaultForeground
	}
	if id, ok := p.ids[hex]; ok {
		return id
	}
	id := tokens.ColorID(len(p.colors))
	if id > 0x1ff {
		// The metadata layout carries nine foreground bits; themes never
		// come close, but a degenerate input falls back to the default.
		return tokens.DefaultForeground
	}
	p.ids[hex] = id
	p.colors = append(p.colors, hex)
	return id
}

// Color returns the hex color for an id, or the empty string for unknown ids.
func (p *Palette) Color(id tokens.ColorID) string {
	if int(id) <= 0 || int(id) >= len(p.colors) {
		return ""
	}
	return p.colors[id]
}

// Len returns the number of registered colors, defaults included.
func (p *Palette) Len() int {
	return len(p.colors) - 1
}
