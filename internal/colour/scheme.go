package colour

import (
	"math"
)

// DefaultSource is the accent used when no colour can be extracted (Google blue).
const DefaultSource ARGB = 0xff4285f4

// CorePalette holds the key tonal palettes a scheme is built from.
type CorePalette struct {
	Primary        TonalPalette
	Secondary      TonalPalette
	Tertiary       TonalPalette
	Neutral        TonalPalette
	NeutralVariant TonalPalette
	Error          TonalPalette
}

// NewCorePalette builds the tonal-spot core palette for a source colour.
func NewCorePalette(source ARGB) CorePalette {
	src := TonalPaletteFromARGB(source)
	return CorePalette{
		Primary:        NewTonalPalette(src.Hue, math.Max(48, src.Chroma)),
		Secondary:      NewTonalPalette(src.Hue, 16),
		Tertiary:       NewTonalPalette(src.Hue+60, 24),
		Neutral:        NewTonalPalette(src.Hue, 4),
		NeutralVariant: NewTonalPalette(src.Hue, 8),
		Error:          NewTonalPalette(25, 84),
	}
}

// Scheme is the closed set of Material colour roles for one mode.
type Scheme struct {
	Source                  ARGB `json:"source"`
	Primary                 ARGB `json:"primary"`
	OnPrimary               ARGB `json:"onPrimary"`
	PrimaryContainer        ARGB `json:"primaryContainer"`
	OnPrimaryContainer      ARGB `json:"onPrimaryContainer"`
	Secondary               ARGB `json:"secondary"`
	OnSecondary             ARGB `json:"onSecondary"`
	SecondaryContainer      ARGB `json:"secondaryContainer"`
	OnSecondaryContainer    ARGB `json:"onSecondaryContainer"`
	Tertiary                ARGB `json:"tertiary"`
	OnTertiary              ARGB `json:"onTertiary"`
	TertiaryContainer       ARGB `json:"tertiaryContainer"`
	OnTertiaryContainer     ARGB `json:"onTertiaryContainer"`
	Error                   ARGB `json:"error"`
	OnError                 ARGB `json:"onError"`
	ErrorContainer          ARGB `json:"errorContainer"`
	OnErrorContainer        ARGB `json:"onErrorContainer"`
	Background              ARGB `json:"background"`
	OnBackground            ARGB `json:"onBackground"`
	Surface                 ARGB `json:"surface"`
	OnSurface               ARGB `json:"onSurface"`
	SurfaceVariant          ARGB `json:"surfaceVariant"`
	OnSurfaceVariant        ARGB `json:"onSurfaceVariant"`
	SurfaceDim              ARGB `json:"surfaceDim"`
	SurfaceBright           ARGB `json:"surfaceBright"`
	SurfaceContainerLowest  ARGB `json:"surfaceContainerLowest"`
	SurfaceContainerLow     ARGB `json:"surfaceContainerLow"`
	SurfaceContainer        ARGB `json:"surfaceContainer"`
	SurfaceContainerHigh    ARGB `json:"surfaceContainerHigh"`
	SurfaceContainerHighest ARGB `json:"surfaceContainerHighest"`
	Outline                 ARGB `json:"outline"`
	OutlineVariant          ARGB `json:"outlineVariant"`
	InverseSurface          ARGB `json:"inverseSurface"`
	InverseOnSurface        ARGB `json:"inverseOnSurface"`
	InversePrimary          ARGB `json:"inversePrimary"`
	Scrim                   ARGB `json:"scrim"`
	Shadow                  ARGB `json:"shadow"`
}

// Role is a single named colour in a scheme.
type Role struct {
	Name  string
	Value ARGB
}

// Roles returns every role in canonical order. Exporters iterate this slice
// so all output formats share the same ordering.
func (s Scheme) Roles() []Role {
	return []Role{
		{"source", s.Source},
		{"primary", s.Primary},
		{"onPrimary", s.OnPrimary},
		{"primaryContainer", s.PrimaryContainer},
		{"onPrimaryContainer", s.OnPrimaryContainer},
		{"secondary", s.Secondary},
		{"onSecondary", s.OnSecondary},
		{"secondaryContainer", s.SecondaryContainer},
		{"onSecondaryContainer", s.OnSecondaryContainer},
		{"tertiary", s.Tertiary},
		{"onTertiary", s.OnTertiary},
		{"tertiaryContainer", s.TertiaryContainer},
		{"onTertiaryContainer", s.OnTertiaryContainer},
		{"error", s.Error},
		{"onError", s.OnError},
		{"errorContainer", s.ErrorContainer},
		{"onErrorContainer", s.OnErrorContainer},
		{"background", s.Background},
		{"onBackground", s.OnBackground},
		{"surface", s.Surface},
		{"onSurface", s.OnSurface},
		{"surfaceVariant", s.SurfaceVariant},
		{"onSurfaceVariant", s.OnSurfaceVariant},
		{"surfaceDim", s.SurfaceDim},
		{"surfaceBright", s.SurfaceBright},
		{"surfaceContainerLowest", s.SurfaceContainerLowest},
		{"surfaceContainerLow", s.SurfaceContainerLow},
		{"surfaceContainer", s.SurfaceContainer},
		{"surfaceContainerHigh", s.SurfaceContainerHigh},
		{"surfaceContainerHighest", s.SurfaceContainerHighest},
		{"outline", s.Outline},
		{"outlineVariant", s.OutlineVariant},
		{"inverseSurface", s.InverseSurface},
		{"inverseOnSurface", s.InverseOnSurface},
		{"inversePrimary", s.InversePrimary},
		{"scrim", s.Scrim},
		{"shadow", s.Shadow},
	}
}

// Map returns the scheme as role name -> "#rrggbb".
func (s Scheme) Map() map[string]string {
	roles := s.Roles()
	m := make(map[string]string, len(roles))
	for _, r := range roles {
		m[r.Name] = r.Value.Hex()
	}
	return m
}

// Get looks up a role by its camelCase name.
func (s Scheme) Get(name string) (ARGB, bool) {
	for _, r := range s.Roles() {
		if r.Name == name {
			return r.Value, true
		}
	}
	return 0, false
}

// LightScheme renders the light scheme for a source colour.
func LightScheme(source ARGB) Scheme {
	p := NewCorePalette(source)
	return Scheme{
		Source:                  source,
		Primary:                 p.Primary.Tone(40),
		OnPrimary:               p.Primary.Tone(100),
		PrimaryContainer:        p.Primary.Tone(90),
		OnPrimaryContainer:      p.Primary.Tone(10),
		Secondary:               p.Secondary.Tone(40),
		OnSecondary:             p.Secondary.Tone(100),
		SecondaryContainer:      p.Secondary.Tone(90),
		OnSecondaryContainer:    p.Secondary.Tone(10),
		Tertiary:                p.Tertiary.Tone(40),
		OnTertiary:              p.Tertiary.Tone(100),
		TertiaryContainer:       p.Tertiary.Tone(90),
		OnTertiaryContainer:     p.Tertiary.Tone(10),
		Error:                   p.Error.Tone(40),
		OnError:                 p.Error.Tone(100),
		ErrorContainer:          p.Error.Tone(90),
		OnErrorContainer:        p.Error.Tone(10),
		Background:              p.Neutral.Tone(98),
		OnBackground:            p.Neutral.Tone(10),
		Surface:                 p.Neutral.Tone(98),
		OnSurface:               p.Neutral.Tone(10),
		SurfaceVariant:          p.NeutralVariant.Tone(90),
		OnSurfaceVariant:        p.NeutralVariant.Tone(30),
		SurfaceDim:              p.Neutral.Tone(87),
		SurfaceBright:           p.Neutral.Tone(98),
		SurfaceContainerLowest:  p.Neutral.Tone(100),
		SurfaceContainerLow:     p.Neutral.Tone(96),
		SurfaceContainer:        p.Neutral.Tone(94),
		SurfaceContainerHigh:    p.Neutral.Tone(92),
		SurfaceContainerHighest: p.Neutral.Tone(90),
		Outline:                 p.NeutralVariant.Tone(50),
		OutlineVariant:          p.NeutralVariant.Tone(80),
		InverseSurface:          p.Neutral.Tone(20),
		InverseOnSurface:        p.Neutral.Tone(95),
		InversePrimary:          p.Primary.Tone(80),
		Scrim:                   p.Neutral.Tone(0),
		Shadow:                  p.Neutral.Tone(0),
	}
}

// DarkScheme renders the dark scheme for a source colour.
func DarkScheme(source ARGB) Scheme {
	p := NewCorePalette(source)
	return Scheme{
		Source:                  source,
		Primary:                 p.Primary.Tone(80),
		OnPrimary:               p.Primary.Tone(20),
		PrimaryContainer:        p.Primary.Tone(30),
		OnPrimaryContainer:      p.Primary.Tone(90),
		Secondary:               p.Secondary.Tone(80),
		OnSecondary:             p.Secondary.Tone(20),
		SecondaryContainer:      p.Secondary.Tone(30),
		OnSecondaryContainer:    p.Secondary.Tone(90),
		Tertiary:                p.Tertiary.Tone(80),
		OnTertiary:              p.Tertiary.Tone(20),
		TertiaryContainer:       p.Tertiary.Tone(30),
		OnTertiaryContainer:     p.Tertiary.Tone(90),
		Error:                   p.Error.Tone(80),
		OnError:                 p.Error.Tone(20),
		ErrorContainer:          p.Error.Tone(30),
		OnErrorContainer:        p.Error.Tone(90),
		Background:              p.Neutral.Tone(6),
		OnBackground:            p.Neutral.Tone(90),
		Surface:                 p.Neutral.Tone(6),
		OnSurface:               p.Neutral.Tone(90),
		SurfaceVariant:          p.NeutralVariant.Tone(30),
		OnSurfaceVariant:        p.NeutralVariant.Tone(80),
		SurfaceDim:              p.Neutral.Tone(6),
		SurfaceBright:           p.Neutral.Tone(24),
		SurfaceContainerLowest:  p.Neutral.Tone(4),
		SurfaceContainerLow:     p.Neutral.Tone(10),
		SurfaceContainer:        p.Neutral.Tone(12),
		SurfaceContainerHigh:    p.Neutral.Tone(17),
		SurfaceContainerHighest: p.Neutral.Tone(22),
		Outline:                 p.NeutralVariant.Tone(60),
		OutlineVariant:          p.NeutralVariant.Tone(30),
		InverseSurface:          p.Neutral.Tone(90),
		InverseOnSurface:        p.Neutral.Tone(20),
		InversePrimary:          p.Primary.Tone(40),
		Scrim:                   p.Neutral.Tone(0),
		Shadow:                  p.Neutral.Tone(0),
	}
}

// Theme pairs the light and dark schemes generated from one source colour.
type Theme struct {
	Source ARGB   `json:"source"`
	Dark   Scheme `json:"dark"`
	Light  Scheme `json:"light"`
}

// ThemeFromSource generates both schemes for a source colour.
// The result is a pure function of source.
func ThemeFromSource(source ARGB) Theme {
	source |= 0xff000000
	return Theme{
		Source: source,
		Dark:   DarkScheme(source),
		Light:  LightScheme(source),
	}
}

// Scheme returns the dark or light scheme.
func (t Theme) Scheme(dark bool) Scheme {
	if dark {
		return t.Dark
	}
	return t.Light
}

// Mode names the scheme variant ("dark" or "light").
func Mode(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
