package segment

import (
	"strings"
	"unicode"
)

// Segmenter splits cleaned text into display tokens. Implementations never
// fail: missing optional dependencies degrade to per-character tokens.
type Segmenter interface {
	Segment(text string) []string
}

// Language tags with a dedicated strategy.
const (
	LangKorean   = "ko"
	LangJapanese = "ja"
	LangChinese  = "zh"
)

// Config selects the segmentation strategy and chunk grouping.
type Config struct {
	Lang      string
	ChunkSize int
}

// NoSpace reports whether the configured language is written without spaces.
func (c Config) NoSpace() bool {
	return IsNoSpaceLanguage(c.Lang)
}

// Normalize lowercases a language tag and strips surrounding whitespace.
func Normalize(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

func baseLang(lang string) string {
	lang = Normalize(lang)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

// IsNoSpaceLanguage reports whether words in lang are not separated by whitespace.
func IsNoSpaceLanguage(lang string) bool {
	switch baseLang(lang) {
	case LangJapanese, LangChinese:
		return true
	default:
		return false
	}
}

// ForLanguage returns the segmentation strategy for a language tag.
func ForLanguage(lang string) Segmenter {
	switch baseLang(lang) {
	case LangKorean:
		return Korean{}
	case LangJapanese:
		return sharedDictionary
	case LangChinese:
		return NewWordBoundary()
	default:
		return Whitespace{}
	}
}

// Tokens runs the full pipeline: clean, segment, then chunk.
func Tokens(raw string, cfg Config) []string {
	text := CleanText(raw)
	tokens := ForLanguage(cfg.Lang).Segment(text)
	return ChunkIfNeeded(tokens, cfg.ChunkSize, cfg.NoSpace())
}

// LanguageInfo describes a supported language tag.
type LanguageInfo struct {
	Tag      string
	Strategy string
	NoSpace  bool
}

// Languages lists the language tags with a dedicated strategy plus the default.
func Languages() []LanguageInfo {
	return []LanguageInfo{
		{Tag: "*", Strategy: "whitespace", NoSpace: false},
		{Tag: LangJapanese, Strategy: "dictionary (kagome/ipa)", NoSpace: true},
		{Tag: LangKorean, Strategy: "eojeol", NoSpace: false},
		{Tag: LangChinese, Strategy: "word boundary (uax29)", NoSpace: true},
	}
}

// Whitespace splits on runs of whitespace.
type Whitespace struct{}

// Segment implements Segmenter.
func (Whitespace) Segment(text string) []string {
	fields := strings.Fields(text)
	if fields == nil {
		return []string{}
	}
	return fields
}

// Characters emits one token per rune, skipping whitespace.
type Characters struct{}

// Segment implements Segmenter.
func (Characters) Segment(text string) []string {
	tokens := make([]string, 0, len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		tokens = append(tokens, string(r))
	}
	return tokens
}
