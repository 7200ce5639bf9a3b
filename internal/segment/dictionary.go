package segment

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/sirupsen/logrus"
)

// ErrNoAnalyzer is returned by a loader that produced neither an analyzer nor an error.
var ErrNoAnalyzer = errors.New("dictionary loader returned no analyzer")

// Analyzer splits no-space text into morphemes.
type Analyzer interface {
	Split(text string) []string
}

// Loader builds an Analyzer. It may be slow and is called lazily.
type Loader func() (Analyzer, error)

// sharedDictionary caches the Japanese analyzer for the whole process.
var sharedDictionary = NewDictionary(LoadKagome)

// Dictionary segments text with a lazily loaded morphological analyzer.
// A successful load is cached forever; a failed load is retried on the next
// call and the current call falls back to per-character tokens.
type Dictionary struct {
	load Loader

	mu       sync.Mutex
	analyzer Analyzer
}

// NewDictionary returns a Dictionary that loads its analyzer with load.
func NewDictionary(load Loader) *Dictionary {
	return &Dictionary{load: load}
}

// Segment implements Segmenter.
func (d *Dictionary) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	an, err := d.Analyzer()
	if err != nil {
		logrus.WithError(err).Warn("dictionary tokenizer unavailable; splitting per character")
		return Characters{}.Segment(text)
	}
	tokens := []string{}
	for _, part := range an.Split(text) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tokens = append(tokens, part)
	}
	return tokens
}

// Analyzer returns the cached analyzer, loading it on first use.
func (d *Dictionary) Analyzer() (Analyzer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analyzer != nil {
		return d.analyzer, nil
	}
	if d.load == nil {
		return nil, ErrNoAnalyzer
	}
	an, err := d.load()
	if err != nil {
		return nil, err
	}
	if an == nil {
		return nil, ErrNoAnalyzer
	}
	logrus.Debug("dictionary tokenizer loaded")
	d.analyzer = an
	return an, nil
}

type kagomeAnalyzer struct {
	t *tokenizer.Tokenizer
}

func (k kagomeAnalyzer) Split(text string) []string {
	return k.t.Wakati(text)
}

// LoadKagome builds a kagome tokenizer backed by the embedded IPA dictionary.
func LoadKagome() (an Analyzer, err error) {
	defer func() {
		if r := recover(); r != nil {
			an = nil
			err = fmt.Errorf("failed to load ipa dictionary: %v", r)
		}
	}()
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return kagomeAnalyzer{t: t}, nil
}
