// Package source loads text to read from files, stdin, or stored documents.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/tuiread/internal/model"
)

// MaxBytes bounds how much text a single source may contribute.
const MaxBytes = 16 << 20

var (
	// ErrTooLarge is returned when a source exceeds MaxBytes.
	ErrTooLarge = errors.New("source text too large")
	// ErrNotUTF8 is returned for input that is not valid UTF-8.
	ErrNotUTF8 = errors.New("source text is not valid UTF-8")
)

// Text is loaded reading material.
type Text struct {
	Title      string
	Content    string
	Path       string
	DocumentID string
	Lang       string
	Position   int
}

// DocumentGetter resolves stored documents.
type DocumentGetter interface {
	GetDocument(ctx context.Context, id string) (model.Document, error)
}

// FromFile reads a UTF-8 text file.
func FromFile(path string) (Text, error) {
	f, err := os.Open(path)
	if err != nil {
		return Text{}, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close on read-only file.
			_ = cerr
		}
	}()
	text, err := FromReader(f, titleFromPath(path))
	if err != nil {
		return Text{}, err
	}
	text.Path = path
	return text, nil
}

// FromReader reads all of r, up to MaxBytes.
func FromReader(r io.Reader, title string) (Text, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return Text{}, fmt.Errorf("failed to read source: %w", err)
	}
	if len(data) > MaxBytes {
		return Text{}, ErrTooLarge
	}
	if !utf8.Valid(data) {
		return Text{}, ErrNotUTF8
	}
	content := strings.TrimPrefix(string(data), "\ufeff")
	return Text{Title: title, Content: content}, nil
}

// FromDocument loads a stored document by ID or unique ID prefix.
func FromDocument(ctx context.Context, docs DocumentGetter, id string) (Text, error) {
	doc, err := docs.GetDocument(ctx, id)
	if err != nil {
		return Text{}, fmt.Errorf("failed to load document %q: %w", id, err)
	}
	return Text{
		Title:      doc.Title,
		Content:    doc.Content,
		DocumentID: doc.ID,
		Lang:       doc.Lang,
		Position:   doc.Position,
	}, nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
