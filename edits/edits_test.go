package edits

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/tokstore/tokens"
)

// ============================================================================
// Describe Tests
// ============================================================================

func TestDescribe_SingleLineInsert(t *testing.T) {
	e := Describe(tokens.NewRange(1, 5, 1, 5), "abc")

	require.Equal(t, 0, e.EOLCount)
	require.Equal(t, 3, e.FirstLineLength)
	require.Equal(t, 3, e.LastLineLength)
	require.Equal(t, 'a', e.FirstChar)
}

func TestDescribe_MultiLineReplacement(t *testing.T) {
	e := Describe(tokens.NewRange(2, 1, 3, 4), "ab\n\ncdef")

	require.Equal(t, 2, e.EOLCount)
	require.Equal(t, 2, e.FirstLineLength)
	require.Equal(t, 4, e.LastLineLength)
	require.Equal(t, 'a', e.FirstChar)
}

func TestDescribe_PureDeletion(t *testing.T) {
	e := Describe(tokens.NewRange(1, 3, 2, 5), "")

	require.Equal(t, 0, e.EOLCount)
	require.Equal(t, 0, e.FirstLineLength)
	require.Equal(t, 0, e.LastLineLength)
	require.Equal(t, rune(0), e.FirstChar)
}

func TestDescribe_LengthsCountRunes(t *testing.T) {
	e := Describe(tokens.NewRange(1, 1, 1, 1), "héllo\nwörld")

	require.Equal(t, 5, e.FirstLineLength)
	require.Equal(t, 5, e.LastLineLength)
}

// ============================================================================
// FromTexts Tests
// ============================================================================

func TestFromTexts_IdenticalTextsYieldNoEdits(t *testing.T) {
	require.Nil(t, FromTexts("a\nb\nc", "a\nb\nc"))
}

func TestFromTexts_SingleCharacterInsert(t *testing.T) {
	es := FromTexts("hello", "hellxo")

	require.Len(t, es, 1)
	require.Equal(t, tokens.NewRange(1, 5, 1, 5), es[0].Range)
	require.Equal(t, "x", es[0].NewText)
	require.Equal(t, 'x', es[0].FirstChar)
}

func TestFromTexts_TailDeletion(t *testing.T) {
	es := FromTexts("hello world", "hello")

	require.Len(t, es, 1)
	require.Equal(t, tokens.NewRange(1, 6, 1, 12), es[0].Range)
	require.Empty(t, es[0].NewText)
}

func TestFromTexts_ReplacementMergesDeleteAndInsert(t *testing.T) {
	es := FromTexts("the cat sat", "the dog sat")

	require.Len(t, es, 1)
	require.Equal(t, "dog", es[0].NewText)
	require.Equal(t, 1, es[0].Range.StartLineNumber)
	require.Equal(t, es[0].Range.EndColumn-es[0].Range.StartColumn, 3)
}

func TestFromTexts_MiddleLineReplaced(t *testing.T) {
	es := FromTexts("aa\nbb\ncc", "aa\nXY\ncc")

	require.Len(t, es, 1)
	require.Equal(t, 2, es[0].Range.StartLineNumber)
	require.Equal(t, 2, es[0].Range.EndLineNumber)
	require.Equal(t, "XY", es[0].NewText)
}

func TestFromTexts_LineJoinSpansNewline(t *testing.T) {
	es := FromTexts("aa\nbb", "aabb")

	require.Len(t, es, 1)
	e := es[0]
	require.Equal(t, e.Range.EndLineNumber, e.Range.StartLineNumber+1)
	require.Empty(t, e.NewText)
}

// applyEdit splices an edit into text using the same line/column convention
// the stores use, for verifying FromTexts output independently of the diff.
func applyEdit(text string, e Edit) string {
	runes := []rune(text)
	start := runeOffset(runes, e.Range.StartLineNumber, e.Range.StartColumn)
	end := runeOffset(runes, e.Range.EndLineNumber, e.Range.EndColumn)
	return string(runes[:start]) + e.NewText + string(runes[end:])
}

func runeOffset(runes []rune, line, col int) int {
	offset := 0
	for line > 1 {
		for offset < len(runes) && runes[offset] != '\n' {
			offset++
		}
		offset++ // consume the newline
		line--
	}
	return offset + col - 1
}

func TestFromTexts_AppliedInOrderReproducesNewText(t *testing.T) {
	before := "package main\n\nfunc main() {\n\tprintln(1)\n}\n"
	after := "package main\n\nfunc run() {\n\tprintln(1)\n\tprintln(2)\n}\n"

	current := before
	for _, e := range FromTexts(before, after) {
		current = applyEdit(current, e)
	}
	require.Equal(t, after, current)
}

// Property: for arbitrary buffer contents, applying the derived edits in
// order transforms the old text into the new text exactly.
func TestFromTexts_Property_EditsReproduceNewText(t *testing.T) {
	gen := rapid.StringOfN(rapid.RuneFrom([]rune("ab\nxé ")), 0, 40, -1)
	rapid.Check(t, func(t *rapid.T) {
		before := gen.Draw(t, "before")
		after := gen.Draw(t, "after")

		current := before
		for _, e := range FromTexts(before, after) {
			current = applyEdit(current, e)
		}
		require.Equal(t, after, current)
	})
}

// Edits feed straight into the stores; a multi-line replacement must leave
// the contiguous store's line count in sync with the buffer.
func TestFromTexts_DrivesContiguousStore(t *testing.T) {
	before := "aa\nbb\ncc\ndd"
	after := "aa\ndd"

	store := tokens.NewContiguousStore()
	for i, line := range strings.Split(before, "\n") {
		store.SetTokens(1, i, len(line), []uint32{uint32(len(line)), 0})
	}

	for _, e := range FromTexts(before, after) {
		store.AcceptEdit(e.Range, e.EOLCount, e.FirstLineLength)
	}
	require.Equal(t, len(strings.Split(after, "\n")), store.LineCount())
}
