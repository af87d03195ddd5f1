package sources

import (
	"log/slog"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector tags posts with an ISO 639-1 code. A nil detector detects nothing.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector restricts detection to the given ISO 639-1 codes. Unknown codes
// are skipped; fewer than two usable codes disables detection.
func NewLanguageDetector(codes []string) *LanguageDetector {
	languages := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		language := lingua.GetLanguageFromIsoCode639_1(lingua.GetIsoCode639_1FromValue(code))
		if language == lingua.Unknown {
			slog.Warn("unsupported detection language, skipping", "code", code)
			continue
		}
		languages = append(languages, language)
	}
	if len(languages) < 2 {
		slog.Info("language detection disabled", "languages", len(languages))
		return nil
	}

	return &LanguageDetector{
		detector: lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).Build(),
	}
}

func (d *LanguageDetector) Detect(text string) string {
	if d == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
