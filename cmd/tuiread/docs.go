package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiread/internal/colours"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/segment"
	"github.com/verte-zerg/tuiread/internal/source"
	"github.com/verte-zerg/tuiread/internal/store"
)

const shortIDLen = 8

var (
	docsTitle string
	docsLang  string
)

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage stored documents",
	}

	add := &cobra.Command{
		Use:   "add [file]",
		Short: "Store a document from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDocsAddCmd,
	}
	add.Flags().StringVar(&docsTitle, "title", "", "document title (default: file name)")
	add.Flags().StringVar(&docsLang, "lang", defaultLang, "language tag used for segmentation")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored documents",
		Args:    cobra.NoArgs,
		RunE:    runDocsListCmd,
	}
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored document",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocsShowCmd,
	}
	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a stored document",
		Args:    cobra.ExactArgs(1),
		RunE:    runDocsRmCmd,
	}
	cmd.AddCommand(add, list, show, rm)
	return cmd
}

func runDocsAddCmd(cmd *cobra.Command, args []string) error {
	var (
		text source.Text
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		text, err = source.FromFile(args[0])
	} else {
		text, err = source.FromReader(cmd.InOrStdin(), "stdin")
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(text.Content) == "" {
		return fmt.Errorf("document is empty")
	}
	title := text.Title
	if docsTitle != "" {
		title = docsTitle
	}
	lang := segment.Normalize(docsLang)
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	doc, err := st.SaveDocument(context.Background(), model.Document{
		Title:   title,
		Lang:    lang,
		Content: text.Content,
	})
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	words := len(segment.Tokens(doc.Content, segment.Config{Lang: doc.Lang, ChunkSize: 1}))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d words)\n",
		colours.Success.Sprint("Added"), colours.ID.Sprint(doc.ID), words)
	return err
}

func runDocsListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	docs, err := st.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		_, err := fmt.Fprintln(out, "No documents. Add one with: tuiread docs add <file>")
		return err
	}
	for _, doc := range docs {
		if _, err := fmt.Fprintf(out, "%s  %-4s %s  %s\n",
			colours.ID.Sprint(doc.ID[:min(shortIDLen, len(doc.ID))]),
			doc.Lang,
			colours.Muted.Sprintf("%s @%d", formatTime(doc.UpdatedAt), doc.Position),
			doc.Title,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runDocsShowCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	doc, err := findDocument(st, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := colours.Title.Fprintln(out, doc.Title); err != nil {
		return err
	}
	if _, err := colours.Muted.Fprintf(out, "%s · %s · position %d · added %s\n\n", doc.ID, doc.Lang, doc.Position, formatTime(doc.CreatedAt)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, doc.Content)
	return err
}

func runDocsRmCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	doc, err := findDocument(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteDocument(context.Background(), doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", colours.Success.Sprint("Deleted"), colours.ID.Sprint(doc.ID))
	return err
}

func findDocument(st *store.Store, id string) (model.Document, error) {
	doc, err := st.GetDocument(context.Background(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return model.Document{}, fmt.Errorf("no document matches %q", id)
	case errors.Is(err, store.ErrAmbiguous):
		return model.Document{}, fmt.Errorf("%q matches several documents; use a longer id", id)
	case err != nil:
		return model.Document{}, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}
