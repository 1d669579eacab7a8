package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tokstore/edits"
	"github.com/zjrosen/tokstore/highlight"
	"github.com/zjrosen/tokstore/internal/log"
	"github.com/zjrosen/tokstore/internal/watcher"
	"github.com/zjrosen/tokstore/tokens"
)

var watchVerify bool

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a file and apply its edits to the token store incrementally",
	Long: `Tokenize a file once, then watch it for changes. Each save is diffed
against the previous content and applied to the token store as edits; the
lines the edits touched are re-tokenized. Per-save timing is printed.

With --verify every save is additionally re-tokenized from scratch and
compared against the incrementally maintained store.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchVerify, "verify", false,
		"re-tokenize fully after each save and compare against the store")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied input file
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)

	h := highlight.New(cfg.Highlight.Language, path, cfg.Highlight.Theme)
	store := tokens.NewContiguousStore()
	if err := h.Populate(store, text); err != nil {
		return err
	}

	watchCfg := watcher.DefaultConfig(path)
	if cfg.Watch.DebounceMs > 0 {
		watchCfg.DebounceDur = time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	}
	w, err := watcher.New(watchCfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	verify := watchVerify || cfg.Watch.Verify
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s (%s, %d lines)\n", path, h.Language(), store.LineCount())

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-onChange:
			newData, readErr := os.ReadFile(path) //nolint:gosec // G304: user-supplied input file
			if readErr != nil {
				log.ErrorErr(log.CatWatch, "Failed to re-read file", readErr, "path", path)
				continue
			}
			text = applyChange(out, h, store, text, string(newData), verify)
		}
	}
}

// applyChange feeds one save into the store and returns the new content.
func applyChange(out io.Writer, h *highlight.Highlighter, store *tokens.ContiguousStore, oldText, newText string, verify bool) string {
	es := edits.FromTexts(oldText, newText)
	if len(es) == 0 {
		return newText
	}

	start := time.Now()
	touched := make(map[int]bool)
	for _, e := range es {
		store.AcceptEdit(e.Range, e.EOLCount, e.FirstLineLength)
		for line := e.Range.StartLineNumber; line <= e.Range.StartLineNumber+e.EOLCount; line++ {
			touched[line-1] = true
		}
	}
	editElapsed := time.Since(start)

	// The positional adjustment is done; the touched lines still carry the
	// old lexical classes and need a tokenizer revisit.
	lexStart := time.Now()
	arrays, err := h.LineArrays(newText)
	if err != nil {
		log.ErrorErr(log.CatLexer, "Re-tokenization failed", err)
		return newText
	}
	bufferLines := strings.Split(newText, "\n")
	retokenized := 0
	for lineIndex := range touched {
		if lineIndex < 0 || lineIndex >= len(arrays) {
			continue
		}
		store.SetTokens(h.LanguageID(), lineIndex, utf8.RuneCountInString(bufferLines[lineIndex]), arrays[lineIndex])
		retokenized++
	}
	lexElapsed := time.Since(lexStart)

	summary := fmt.Sprintf("%d edit(s) applied in %s, %d line(s) re-tokenized in %s",
		len(es), editElapsed, retokenized, lexElapsed)

	if verify {
		fresh := tokens.NewContiguousStore()
		if err := h.Populate(fresh, newText); err != nil {
			log.ErrorErr(log.CatLexer, "Verification tokenization failed", err)
		} else {
			mismatches := compareStores(h.LanguageID(), store, fresh, bufferLines)
			if mismatches == 0 {
				summary += ", " + successStyle.Render("verify ok")
			} else {
				summary += fmt.Sprintf(", verify: %d line(s) differ (multi-line constructs need a wider revisit)", mismatches)
			}
		}
	}

	fmt.Fprintln(out, summary)
	log.Info(log.CatStore, "Applied save", "edits", len(es), "retokenized", retokenized)
	return newText
}

// compareStores counts lines whose token views differ between two stores.
func compareStores(languageID tokens.LanguageID, a, b *tokens.ContiguousStore, bufferLines []string) int {
	mismatches := 0
	for i := range bufferLines {
		va := a.GetTokens(languageID, i, bufferLines[i])
		vb := b.GetTokens(languageID, i, bufferLines[i])
		if !lineViewsEqual(va, vb) {
			mismatches++
		}
	}
	return mismatches
}

func lineViewsEqual(a, b tokens.LineTokens) bool {
	if a.Count() != b.Count() {
		return false
	}
	for i := 0; i < a.Count(); i++ {
		if a.GetEndCharacter(i) != b.GetEndCharacter(i) || a.GetMetadata(i) != b.GetMetadata(i) {
			return false
		}
	}
	return true
}
