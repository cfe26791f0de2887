package theme

import "versenest/models"

// Palette contains the styling primitives the layout shell applies. Each
// audience gets its own palette so the writer and reader surfaces feel
// distinct while sharing one component set.
type Palette struct {
	Key             string
	BodyClass       string
	ShellClass      string
	PanelClass      string
	AccentTextClass string
	MutedTextClass  string
	ButtonClass     string
}

// DefaultKey is the palette used on the landing surface before any role is
// chosen.
const DefaultKey = "parchment"

var catalogue = map[string]Palette{
	"parchment": {
		Key:             "parchment",
		BodyClass:       "min-h-screen bg-stone-50 text-stone-900",
		ShellClass:      "nest-shell light",
		PanelClass:      "nest-panel",
		AccentTextClass: "nest-accent",
		MutedTextClass:  "nest-muted",
		ButtonClass:     "nest-button",
	},
	"inkwell": {
		Key:             "inkwell",
		BodyClass:       "min-h-screen bg-slate-950 text-slate-100",
		ShellClass:      "nest-shell dark",
		PanelClass:      "nest-panel",
		AccentTextClass: "nest-accent",
		MutedTextClass:  "nest-muted",
		ButtonClass:     "nest-button",
	},
	"lantern": {
		Key:             "lantern",
		BodyClass:       "min-h-screen bg-amber-50 text-stone-900",
		ShellClass:      "nest-shell warm",
		PanelClass:      "nest-panel",
		AccentTextClass: "nest-accent",
		MutedTextClass:  "nest-muted",
		ButtonClass:     "nest-button",
	},
}

// ByKey resolves a palette, falling back to the default for unknown keys.
func ByKey(key string) Palette {
	if palette, ok := catalogue[key]; ok {
		return palette
	}
	return catalogue[DefaultKey]
}

// ForRole picks the palette for an authenticated audience: inkwell for
// writers, lantern for readers, and the default everywhere else.
func ForRole(role models.Role) Palette {
	switch role {
	case models.RoleWriter:
		return catalogue["inkwell"]
	case models.RoleReader:
		return catalogue["lantern"]
	default:
		return catalogue[DefaultKey]
	}
}
