package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/tokstore/highlight"
	"github.com/zjrosen/tokstore/internal/config"
	"github.com/zjrosen/tokstore/tokens"
)

// ============================================================================
// Tokenize / Inspect Round Trip
// ============================================================================

func TestTokenizeThenInspect_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(src, []byte("package main\n\nfunc main() {}\n"), 0o600))

	cfg = config.Defaults()
	cfg.Cache.Enabled = false
	tokenizeOutput = filepath.Join(dir, "out.tok")
	t.Cleanup(func() { tokenizeOutput = "" })

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	require.NoError(t, runTokenize(c, []string{src}))
	require.Contains(t, out.String(), "out.tok")

	payload, err := os.ReadFile(tokenizeOutput)
	require.NoError(t, err)
	blocks, err := tokens.Deserialize(payload)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)
	require.Equal(t, 4, blocks[0].LineCount(), "three content lines plus the trailing empty line")

	inspectShowTokens = true
	t.Cleanup(func() { inspectShowTokens = false })
	var inspectOut bytes.Buffer
	c2 := &cobra.Command{}
	c2.SetOut(&inspectOut)
	require.NoError(t, runInspect(c2, []string{tokenizeOutput}))
	require.Contains(t, inspectOut.String(), "block 0")
	require.Contains(t, inspectOut.String(), "lang=")
}

func TestTokenize_UsesCacheOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(src, []byte("package main\n"), 0o600))

	cfg = config.Defaults()
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(dir, "cache.db")
	tokenizeOutput = filepath.Join(dir, "out.tok")
	t.Cleanup(func() { tokenizeOutput = "" })

	var first bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&first)
	require.NoError(t, runTokenize(c, []string{src}))
	require.NotContains(t, first.String(), "cached")

	var second bytes.Buffer
	c2 := &cobra.Command{}
	c2.SetOut(&second)
	require.NoError(t, runTokenize(c2, []string{src}))
	require.Contains(t, second.String(), "cached")
}

// ============================================================================
// Watch Change Application
// ============================================================================

func TestApplyChange_IncrementalMatchesFresh(t *testing.T) {
	oldText := "a := 1\nb := 2\nc := 3\n"
	newText := "a := 10\nb := 2\nc := 3\n"

	h := highlight.New("go", "", "monokai")
	store := tokens.NewContiguousStore()
	require.NoError(t, h.Populate(store, oldText))

	var out bytes.Buffer
	got := applyChange(&out, h, store, oldText, newText, true)

	require.Equal(t, newText, got)
	require.Contains(t, out.String(), "verify ok")
}

func TestApplyChange_NoChangeIsQuiet(t *testing.T) {
	text := "a := 1\n"
	h := highlight.New("go", "", "monokai")
	store := tokens.NewContiguousStore()
	require.NoError(t, h.Populate(store, text))

	var out bytes.Buffer
	got := applyChange(&out, h, store, text, text, false)

	require.Equal(t, text, got)
	require.Empty(t, out.String())
}

// A save with several separated edits, one of which shifts later lines.
// Every incrementally maintained line must match a from-scratch store.
func TestApplyChange_MultipleEditsWithLineShift(t *testing.T) {
	oldText := "a := 1\nb := 2\nc := 3\nd := 4\ne := 5\n"
	newText := "a := 100\nb := 2\nd := 4\ne := 50\n"

	h := highlight.New("go", "", "monokai")
	store := tokens.NewContiguousStore()
	require.NoError(t, h.Populate(store, oldText))

	var out bytes.Buffer
	got := applyChange(&out, h, store, oldText, newText, true)

	require.Equal(t, newText, got)
	require.Equal(t, 5, store.LineCount())
	require.Contains(t, out.String(), "verify ok")
}

func TestApplyChange_MultiLineDeleteShrinksStore(t *testing.T) {
	oldText := "a := 1\nb := 2\nc := 3\nd := 4"
	newText := "a := 1\nd := 4"

	h := highlight.New("go", "", "monokai")
	store := tokens.NewContiguousStore()
	require.NoError(t, h.Populate(store, oldText))
	require.Equal(t, 4, store.LineCount())

	var out bytes.Buffer
	applyChange(&out, h, store, oldText, newText, false)
	require.Equal(t, 2, store.LineCount())
}
