package speech

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
)

// VoicePrefs describes which voice the narrator should look for.
type VoicePrefs struct {
	// Locale is the preferred BCP 47 tag, e.g. "pt-BR".
	Locale string

	// Name, when set, is fuzzy-matched against voice names before the
	// locale rules apply.
	Name string
}

// voiceSource adapts a voice slice for fuzzy matching by name.
type voiceSource []Voice

func (s voiceSource) String(i int) string { return s[i].Name }
func (s voiceSource) Len() int            { return len(s) }

// ChooseVoice picks a voice from the candidates. Selection order: fuzzy
// match on the preferred name, exact match on the preferred locale, same
// base language in any region, then the first candidate. The boolean
// reports whether a preferred voice (name or exact locale) was found, which
// is what stops the narrator's retry loop.
func ChooseVoice(voices []Voice, prefs VoicePrefs) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	if prefs.Name != "" {
		if matches := fuzzy.FindFrom(prefs.Name, voiceSource(voices)); len(matches) > 0 {
			return voices[matches[0].Index], true
		}
	}

	for _, v := range voices {
		if strings.EqualFold(v.Language, prefs.Locale) {
			return v, true
		}
	}

	if base, ok := baseLanguage(prefs.Locale); ok {
		for _, v := range voices {
			if b, ok := baseLanguage(v.Language); ok && b == base {
				return v, false
			}
		}
	}

	return voices[0], false
}

// baseLanguage extracts the base language ("pt" from "pt-BR") from a BCP 47
// tag.
func baseLanguage(tag string) (language.Base, bool) {
	t, err := language.Parse(tag)
	if err != nil {
		return language.Base{}, false
	}
	base, conf := t.Base()
	return base, conf > language.No
}
