// Package modifiers turns the platform and tone tags a user attaches to their
// next message into the natural-language instructions prepended to the prompt.
package modifiers

import "fmt"

// Platform identifies a target publishing platform.
type Platform string

// Tone identifies the requested tone of voice.
type Tone string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	LinkedIn  Platform = "linkedin"
	X         Platform = "x"
)

const (
	ToneFormal   Tone = "formal"
	ToneDefault  Tone = "default"
	ToneInformal Tone = "informal"
)

// PlatformInfo describes one entry of the platform catalog.
type PlatformInfo struct {
	ID          Platform
	Label       string
	Instruction string
}

// ToneInfo describes one entry of the tone catalog. The default tone carries
// no instruction.
type ToneInfo struct {
	ID          Tone
	Label       string
	Instruction string
}

// platformCatalog is in canonical order; composition always follows it.
var platformCatalog = []PlatformInfo{
	{ID: Facebook, Label: "Facebook", Instruction: "user wants to generate a facebook post"},
	{ID: Instagram, Label: "Instagram", Instruction: "user wants to generate a instagram post"},
	{ID: LinkedIn, Label: "LinkedIn", Instruction: "user wants to generate a linkedin post"},
	{ID: X, Label: "X", Instruction: "user wants to generate a twitter post"},
}

var toneCatalog = []ToneInfo{
	{ID: ToneFormal, Label: "More Formal", Instruction: "user wants a formal tone of voice"},
	{ID: ToneDefault, Label: "Default Tone"},
	{ID: ToneInformal, Label: "Less Formal", Instruction: "user wants a less formal tone of voice"},
}

// Platforms returns the platform catalog in canonical order.
func Platforms() []PlatformInfo {
	return append([]PlatformInfo(nil), platformCatalog...)
}

// Tones returns the tone catalog in display order.
func Tones() []ToneInfo {
	return append([]ToneInfo(nil), toneCatalog...)
}

func lookupPlatform(id Platform) (PlatformInfo, bool) {
	for _, info := range platformCatalog {
		if info.ID == id {
			return info, true
		}
	}
	return PlatformInfo{}, false
}

func lookupTone(id Tone) (ToneInfo, bool) {
	for _, info := range toneCatalog {
		if info.ID == id {
			return info, true
		}
	}
	return ToneInfo{}, false
}

// Selection is the set of modifiers currently attached to the composer.
type Selection struct {
	Platforms map[Platform]bool
	Tone      Tone
}

// NewSelection returns an empty selection with the default tone.
func NewSelection() Selection {
	return Selection{Platforms: map[Platform]bool{}, Tone: ToneDefault}
}

// TogglePlatform flips a platform in or out of the selection. Unknown ids are
// ignored and reported as false.
func (s *Selection) TogglePlatform(id Platform) bool {
	if _, ok := lookupPlatform(id); !ok {
		return false
	}
	if s.Platforms == nil {
		s.Platforms = map[Platform]bool{}
	}
	if s.Platforms[id] {
		delete(s.Platforms, id)
	} else {
		s.Platforms[id] = true
	}
	return true
}

// SetTone selects exactly one tone. Unknown tones leave the selection untouched.
func (s *Selection) SetTone(id Tone) error {
	if _, ok := lookupTone(id); !ok {
		return fmt.Errorf("unknown tone %q", id)
	}
	s.Tone = id
	return nil
}

// Selected reports whether the platform is part of the selection.
func (s Selection) Selected(id Platform) bool {
	return s.Platforms[id]
}

// SelectedPlatforms lists selected known platforms in canonical order.
func (s Selection) SelectedPlatforms() []Platform {
	var out []Platform
	for _, info := range platformCatalog {
		if s.Platforms[info.ID] {
			out = append(out, info.ID)
		}
	}
	return out
}

// ActiveCount is the number of modifiers that contribute to the prompt.
func (s Selection) ActiveCount() int {
	count := len(s.SelectedPlatforms())
	if info, ok := lookupTone(s.Tone); ok && info.Instruction != "" {
		count++
	}
	return count
}

// Summary returns short labels for the active modifiers, e.g. "Facebook post".
func (s Selection) Summary() []string {
	var lines []string
	for _, id := range s.SelectedPlatforms() {
		info, _ := lookupPlatform(id)
		lines = append(lines, info.Label+" post")
	}
	if info, ok := lookupTone(s.Tone); ok && info.ID != ToneDefault {
		lines = append(lines, info.Label+" tone")
	}
	return lines
}

// Compose maps a selection to its ordered instruction list: one instruction per
// selected platform in canonical order, then the tone instruction unless the
// tone is the default.
func Compose(s Selection) []string {
	instructions := []string{}
	for _, info := range platformCatalog {
		if s.Platforms[info.ID] {
			instructions = append(instructions, info.Instruction)
		}
	}
	if info, ok := lookupTone(s.Tone); ok && info.Instruction != "" {
		instructions = append(instructions, info.Instruction)
	}
	return instructions
}
