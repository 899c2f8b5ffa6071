package model

import "strings"

// Preferences are the scalar user settings persisted one key each.
type Preferences struct {
	Language          string `json:"language"`
	Theme             string `json:"theme"`
	Accent            string `json:"accent"`
	Font              string `json:"font"`
	ClassroomClientID string `json:"classroomClientId"`
}

var (
	Languages = []string{"es", "en", "fr", "it", "de", "pt"}
	Themes    = []string{"oracle", "midnight", "minimal"}
	Fonts     = []string{"Playfair Display", "Inter", "Lexend", "Space Grotesk", "JetBrains Mono", "Montserrat"}
)

// Accents maps accent names to their hex value.
var Accents = map[string]string{
	"gold":    "#C5A059",
	"silver":  "#94A3B8",
	"bronze":  "#CD7F32",
	"ruby":    "#e11d48",
	"emerald": "#10b981",
	"onyx":    "#1A1A1A",
}

func DefaultPreferences() Preferences {
	return Preferences{
		Language: "es",
		Theme:    "oracle",
		Accent:   Accents["gold"],
		Font:     "Inter",
	}
}

func IsLanguage(code string) bool { return containsFold(Languages, code) }
func IsTheme(name string) bool    { return containsFold(Themes, name) }
func IsFont(name string) bool     { return containsFold(Fonts, name) }

// ResolveAccent accepts an accent name or a hex color.
func ResolveAccent(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if hex, ok := Accents[strings.ToLower(v)]; ok {
		return hex, true
	}
	if IsHexColor(v) {
		return v, true
	}
	return "", false
}

// CanonicalFont returns the font spelled as in Fonts.
func CanonicalFont(name string) (string, bool) {
	for _, f := range Fonts {
		if strings.EqualFold(f, strings.TrimSpace(name)) {
			return f, true
		}
	}
	return "", false
}

func containsFold(items []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range items {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
