package models

// Tone selects the writing voice of the generated README.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneTechnical    Tone = "technical"
	ToneMinimal      Tone = "minimal"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneTechnical, ToneMinimal:
		return true
	}
	return false
}

// BadgeStyle selects the shields.io style parameter for badges.
type BadgeStyle string

const (
	BadgeFlat        BadgeStyle = "flat"
	BadgeFlatSquare  BadgeStyle = "flat-square"
	BadgePlastic     BadgeStyle = "plastic"
	BadgeForTheBadge BadgeStyle = "for-the-badge"
)

func (b BadgeStyle) Valid() bool {
	switch b {
	case BadgeFlat, BadgeFlatSquare, BadgePlastic, BadgeForTheBadge:
		return true
	}
	return false
}

// SectionChoice is one README section toggle. Order of choices is the order
// sections appear in the document.
type SectionChoice struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

// GenerationOptions is the full set of user choices for one generation run.
// Treated as an immutable value: validated once, then passed around by value.
type GenerationOptions struct {
	Sections   []SectionChoice `json:"sections,omitempty"`
	Tone       Tone            `json:"tone,omitempty"`
	BadgeStyle BadgeStyle      `json:"badge_style,omitempty"`
	Emoji      bool            `json:"emoji,omitempty"`
	TOC        bool            `json:"toc,omitempty"`
}

// DefaultGenerationOptions returns the choices used when the caller passes
// none: every standard section enabled, professional voice, flat badges.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Sections: []SectionChoice{
			{ID: "description", Enabled: true},
			{ID: "badges", Enabled: true},
			{ID: "features", Enabled: true},
			{ID: "techStack", Enabled: true},
			{ID: "installation", Enabled: true},
			{ID: "usage", Enabled: true},
			{ID: "contributing", Enabled: true},
			{ID: "license", Enabled: true},
		},
		Tone:       ToneProfessional,
		BadgeStyle: BadgeFlat,
	}
}

// Normalize fills zero values with defaults and reports whether the
// resulting options are usable.
func (o GenerationOptions) Normalize() (GenerationOptions, bool) {
	if len(o.Sections) == 0 {
		o.Sections = DefaultGenerationOptions().Sections
	}
	if o.Tone == "" {
		o.Tone = ToneProfessional
	}
	if o.BadgeStyle == "" {
		o.BadgeStyle = BadgeFlat
	}
	return o, o.Tone.Valid() && o.BadgeStyle.Valid()
}

// EnabledSections returns the IDs of enabled sections in choice order.
func (o GenerationOptions) EnabledSections() []string {
	ids := make([]string, 0, len(o.Sections))
	for _, s := range o.Sections {
		if s.Enabled {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
