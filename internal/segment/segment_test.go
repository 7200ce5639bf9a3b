package segment

import (
	"errors"
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestWhitespaceRoundTrip(t *testing.T) {
	in := "  the quick\tbrown\n\nfox  jumps "
	tokens := Whitespace{}.Segment(in)
	if got, want := strings.Join(tokens, " "), strings.Join(strings.Fields(in), " "); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if len(Whitespace{}.Segment("")) != 0 {
		t.Fatalf("expected no tokens for empty input")
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	tokens := Tokens("# Title\n\nThis is **bold** text.", Config{Lang: "en", ChunkSize: 1})
	want := []string{"Title", "This", "is", "bold", "text."}
	assertTokens(t, tokens, want)
}

func TestPipelineChunks(t *testing.T) {
	tokens := Tokens("one two three four five", Config{Lang: "en", ChunkSize: 2})
	assertTokens(t, tokens, []string{"one two", "three four", "five"})
}

func TestKoreanEojeolBoundary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"short units stay whole", "안녕하세요 반갑습니다", []string{"안녕하세요", "반갑습니다"}},
		{"six runes stay whole", "가나다라마바", []string{"가나다라마바"}},
		{"seven runes split 3-3-1", "가나다라마바사", []string{"가나다", "라마바", "사"}},
		{"eight runes split 3-3-2", "가나다라마바사아", []string{"가나다", "라마바", "사아"}},
		{"non hangul passes through", "internationalization", []string{"internationalization"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, Korean{}.Segment(tt.in), tt.want)
		})
	}
}

func TestKoreanLongEojeolPiecesBounded(t *testing.T) {
	in := "대한민국헌법제일조 국민의권리와의무에관한조항들 짧은말"
	for _, tok := range (Korean{}).Segment(in) {
		n := utf8.RuneCountInString(tok)
		if tok == "짧은말" {
			continue
		}
		if n > 4 {
			t.Fatalf("piece %q from a long eojeol has %d runes", tok, n)
		}
	}
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Split(text string) []string {
	return strings.Split(text, "|")
}

func TestDictionaryCachesSuccessfulLoad(t *testing.T) {
	calls := 0
	d := NewDictionary(func() (Analyzer, error) {
		calls++
		return fakeAnalyzer{}, nil
	})
	assertTokens(t, d.Segment("私|は| |猫"), []string{"私", "は", "猫"})
	assertTokens(t, d.Segment("です"), []string{"です"})
	if calls != 1 {
		t.Fatalf("expected loader to run once, ran %d times", calls)
	}
}

func TestDictionaryFallsBackAndRetries(t *testing.T) {
	calls := 0
	d := NewDictionary(func() (Analyzer, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("fetch failed")
		}
		return fakeAnalyzer{}, nil
	})
	assertTokens(t, d.Segment("猫 です"), []string{"猫", "で", "す"})
	assertTokens(t, d.Segment("猫|です"), []string{"猫", "です"})
	if calls != 2 {
		t.Fatalf("expected a retry after failure, loader ran %d times", calls)
	}
}

func TestDictionaryNilAnalyzer(t *testing.T) {
	d := NewDictionary(func() (Analyzer, error) { return nil, nil })
	if _, err := d.Analyzer(); !errors.Is(err, ErrNoAnalyzer) {
		t.Fatalf("expected ErrNoAnalyzer, got %v", err)
	}
	assertTokens(t, d.Segment("ab"), []string{"a", "b"})
	assertTokens(t, d.Segment("   "), []string{})
}

func TestWordBoundaryFallback(t *testing.T) {
	assertTokens(t, WordBoundary{}.Segment("中文 字"), []string{"中", "文", "字"})
}

func TestWordBoundaryDropsSpaces(t *testing.T) {
	for _, tok := range NewWordBoundary().Segment("我爱 北京。 hello world") {
		if strings.TrimSpace(tok) == "" {
			t.Fatalf("unexpected blank token")
		}
		for _, r := range tok {
			if unicode.IsSpace(r) {
				t.Fatalf("token %q contains whitespace", tok)
			}
		}
	}
	assertTokens(t, NewWordBoundary().Segment(""), []string{})
}

func TestCharacters(t *testing.T) {
	assertTokens(t, Characters{}.Segment("日本 語"), []string{"日", "本", "語"})
}

func TestIsNoSpaceLanguage(t *testing.T) {
	for _, lang := range []string{"ja", "zh", "ZH-tw", " ja_JP "} {
		if !IsNoSpaceLanguage(lang) {
			t.Fatalf("expected %q to be a no-space language", lang)
		}
	}
	for _, lang := range []string{"", "en", "ko", "de"} {
		if IsNoSpaceLanguage(lang) {
			t.Fatalf("expected %q to use spaces", lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	if _, ok := ForLanguage("ko").(Korean); !ok {
		t.Fatalf("expected Korean segmenter")
	}
	if ForLanguage("ja-JP") != Segmenter(sharedDictionary) {
		t.Fatalf("expected shared dictionary for japanese")
	}
	if _, ok := ForLanguage("zh").(WordBoundary); !ok {
		t.Fatalf("expected word boundary segmenter")
	}
	if _, ok := ForLanguage("fr").(Whitespace); !ok {
		t.Fatalf("expected whitespace segmenter")
	}
}

func assertTokens(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens %q, got %d %q", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestKagomeDictionarySegmentsJapanese(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the ipa dictionary")
	}
	in := "私は猫です"
	tokens := sharedDictionary.Segment(in)
	if len(tokens) < 2 {
		t.Fatalf("expected several morphemes, got %q", tokens)
	}
	if got := strings.Join(tokens, ""); got != in {
		t.Fatalf("expected tokens to rebuild %q, got %q", in, got)
	}
	multi := false
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) > 1 {
			multi = true
		}
	}
	if !multi {
		t.Fatalf("expected a multi-character morpheme, got %q (character fallback?)", tokens)
	}
}
