package tokens

import "slices"

// ContiguousStore owns one encoded token array per buffer line, indexed by
// zero-based line index. Entries are nil until the tokenizer delivers output
// for the line; reads of nil entries synthesize a single default token.
//
// The store is not synchronized. The owner of the text buffer must apply
// edits, tokenizer results and reads in the same single-threaded sequence as
// the buffer's own mutations, in the order they occurred.
type ContiguousStore struct {
	lineTokens [][]uint32
}

// NewContiguousStore returns an empty store.
func NewContiguousStore() *ContiguousStore {
	return &ContiguousStore{}
}

// Flush drops all stored tokens. Used on full retokenization or model reset.
func (s *ContiguousStore) Flush() {
	s.lineTokens = nil
}

// SetTokens stores the tokenizer's output for one line. rawTokens is the
// flat (endOffset, metadata) array; nil or empty input synthesizes a single
// default token covering the line. The final end offset is clamped to
// lineTextLength because a tokenizer pass racing with an edit routinely
// delivers stale lengths.
//
// The raw backing slice is stored directly, not copied; the caller must not
// reuse it.
func (s *ContiguousStore) SetTokens(languageID LanguageID, lineIndex, lineTextLength int, rawTokens []uint32) {
	tokens := massageTokens(languageID, lineTextLength, rawTokens)
	for lineIndex >= len(s.lineTokens) {
		s.lineTokens = append(s.lineTokens, nil)
	}
	s.lineTokens[lineIndex] = tokens
}

func massageTokens(languageID LanguageID, lineTextLength int, tokens []uint32) []uint32 {
	if lineTextLength == 0 {
		hasDifferentLanguageID := false
		if len(tokens) > 1 {
			hasDifferentLanguageID = Metadata(tokens[1]).LanguageID() != languageID
		}
		if !hasDifferentLanguageID {
			return emptySentinel
		}
	}
	if len(tokens) == 0 {
		return []uint32{uint32(lineTextLength), uint32(DefaultMetadata(languageID))}
	}
	tokens[len(tokens)-2] = uint32(lineTextLength)
	return tokens
}

// GetTokens returns a read-only view of the line's tokens. Lines without
// stored tokens, including empty lines, get one default token spanning the
// whole line.
func (s *ContiguousStore) GetTokens(languageID LanguageID, lineIndex int, lineText string) LineTokens {
	var raw []uint32
	if lineIndex >= 0 && lineIndex < len(s.lineTokens) {
		raw = s.lineTokens[lineIndex]
	}
	if len(raw) > 0 {
		return NewLineTokens(raw, lineText)
	}
	return NewLineTokens([]uint32{uint32(len(lineText)), uint32(DefaultMetadata(languageID))}, lineText)
}

// HasTokens reports whether real tokenizer output is stored for the line.
func (s *ContiguousStore) HasTokens(lineIndex int) bool {
	return lineIndex >= 0 && lineIndex < len(s.lineTokens) && s.lineTokens[lineIndex] != nil
}

// LineCount returns the number of line entries the store currently tracks.
// Lines past this count have simply never been touched.
func (s *ContiguousStore) LineCount() int {
	return len(s.lineTokens)
}

// AcceptEdit adjusts stored tokens for one committed buffer edit: the text
// in r was replaced by text containing eolCount newline sequences whose
// first line is firstLineLength characters long. Must be called for every
// edit, in order, before any subsequent read.
func (s *ContiguousStore) AcceptEdit(r Range, eolCount, firstLineLength int) {
	s.acceptDeleteRange(r)
	s.acceptInsertText(Position{LineNumber: r.StartLineNumber, Column: r.StartColumn}, eolCount, firstLineLength)
}

func (s *ContiguousStore) acceptDeleteRange(r Range) {
	firstLineIndex := r.StartLineNumber - 1
	if firstLineIndex >= len(s.lineTokens) {
		return
	}

	if r.StartLineNumber == r.EndLineNumber {
		if r.StartColumn == r.EndColumn {
			return
		}
		s.lineTokens[firstLineIndex] = DeleteTokens(s.lineTokens[firstLineIndex], r.StartColumn-1, r.EndColumn-1)
		return
	}

	s.lineTokens[firstLineIndex] = DeleteTokensEnding(s.lineTokens[firstLineIndex], r.StartColumn-1)

	lastLineIndex := r.EndLineNumber - 1
	var lastLineTokens []uint32
	if lastLineIndex < len(s.lineTokens) {
		lastLineTokens = DeleteTokensBeginning(s.lineTokens[lastLineIndex], r.EndColumn-1)
	}

	// Whatever survives of the last line is appended onto the first line.
	s.lineTokens[firstLineIndex] = AppendTokens(s.lineTokens[firstLineIndex], lastLineTokens)

	s.deleteLines(r.StartLineNumber, r.EndLineNumber-r.StartLineNumber)
}

// deleteLines removes count entries starting at the zero-based index start.
func (s *ContiguousStore) deleteLines(start, count int) {
	if start >= len(s.lineTokens) || count == 0 {
		return
	}
	if start+count > len(s.lineTokens) {
		count = len(s.lineTokens) - start
	}
	s.lineTokens = slices.Delete(s.lineTokens, start, start+count)
}

func (s *ContiguousStore) acceptInsertText(pos Position, eolCount, firstLineLength int) {
	if eolCount == 0 && firstLineLength == 0 {
		return
	}
	lineIndex := pos.LineNumber - 1
	if lineIndex >= len(s.lineTokens) {
		return
	}

	if eolCount == 0 {
		InsertTokens(s.lineTokens[lineIndex], pos.Column-1, firstLineLength)
		return
	}

	// The insertion splits the origin line: its tail moves to the last new
	// line, which stays un-tokenized until the tokenizer revisits it.
	s.lineTokens[lineIndex] = DeleteTokensEnding(s.lineTokens[lineIndex], pos.Column-1)
	InsertTokens(s.lineTokens[lineIndex], pos.Column-1, firstLineLength)
	s.insertLines(pos.LineNumber, eolCount)
}

// insertLines makes room for count fresh (un-tokenized) entries at the
// zero-based index start.
func (s *ContiguousStore) insertLines(start, count int) {
	if count == 0 || start > len(s.lineTokens) {
		return
	}
	s.lineTokens = slices.Insert(s.lineTokens, start, make([][]uint32, count)...)
}
