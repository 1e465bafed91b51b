// Package language wraps lingua-go language detection for page extracts.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultMinConfidence is the threshold above which a mismatched detection
// is trusted enough to skip a page.
const DefaultMinConfidence = 0.9

// Candidate languages. A fixed set keeps model loading bounded; extracts
// outside the set resolve to the closest candidate with low confidence and
// are never skipped.
var candidates = []lingua.Language{
	lingua.English, lingua.French, lingua.German, lingua.Spanish,
	lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Swedish,
	lingua.Russian, lingua.Japanese, lingua.Chinese,
}

// Detector identifies the language of page text.
type Detector struct {
	inner lingua.LanguageDetector
}

// NewDetector builds a detector over the candidate set. Construction is
// cheap; models load lazily on first detection.
func NewDetector() *Detector {
	return &Detector{
		inner: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the most likely language
// and its confidence in [0,1]. ok is false when the text carries no usable
// signal.
func (d *Detector) Detect(text string) (code string, confidence float64, ok bool) {
	detected, exists := d.inner.DetectLanguageOf(text)
	if !exists {
		return "", 0, false
	}
	confidence = d.inner.ComputeLanguageConfidence(text, detected)
	return strings.ToLower(detected.IsoCode639_1().String()), confidence, true
}

// Matches reports whether text is acceptable for the wanted language.
// Undetectable text and low-confidence mismatches pass, so the filter only
// skips pages it is sure about. The detected code and confidence are
// returned for recording on the page outcome.
func (d *Detector) Matches(text, wantCode string, minConfidence float64) (bool, string, float64) {
	code, confidence, ok := d.Detect(text)
	if !ok {
		return true, "", 0
	}
	if code != strings.ToLower(wantCode) && confidence >= minConfidence {
		return false, code, confidence
	}
	return true, code, confidence
}
