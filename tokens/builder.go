package tokens

// MultilineTokens is a run of consecutive lines' encoded token arrays under
// one 1-based start line. It is the builder-produced, serializable form: one
// raw (endOffset, metadata) array per absolute line.
type MultilineTokens struct {
	startLineNumber int
	tokens          [][]uint32
}

// NewMultilineTokens wraps per-line token arrays starting at the given line.
func NewMultilineTokens(startLineNumber int, tokens [][]uint32) *MultilineTokens {
	return &MultilineTokens{startLineNumber: startLineNumber, tokens: tokens}
}

// StartLineNumber returns the 1-based line of the block's first entry.
func (m *MultilineTokens) StartLineNumber() int {
	return m.startLineNumber
}

// EndLineNumber returns the 1-based line of the block's last entry.
func (m *MultilineTokens) EndLineNumber() int {
	return m.startLineNumber + len(m.tokens) - 1
}

// LineCount returns the number of lines in the block.
func (m *MultilineTokens) LineCount() int {
	return len(m.tokens)
}

// GetLineTokens returns the encoded array for the given 1-based line, or nil
// when the line is outside the block.
func (m *MultilineTokens) GetLineTokens(lineNumber int) []uint32 {
	if lineNumber < m.startLineNumber || lineNumber > m.EndLineNumber() {
		return nil
	}
	return m.tokens[lineNumber-m.startLineNumber]
}

func (m *MultilineTokens) appendLineTokens(tokens []uint32) {
	m.tokens = append(m.tokens, tokens)
}

// MultilineTokensBuilder accumulates per-line tokenizer output into blocks,
// merging each added line into the last block when it directly follows it.
type MultilineTokensBuilder struct {
	blocks []*MultilineTokens
}

// NewMultilineTokensBuilder returns an empty builder.
func NewMultilineTokensBuilder() *MultilineTokensBuilder {
	return &MultilineTokensBuilder{}
}

// Add appends one line's encoded token array. Lines must be added in
// increasing line-number order.
func (b *MultilineTokensBuilder) Add(lineNumber int, tokens []uint32) {
	if len(b.blocks) > 0 {
		last := b.blocks[len(b.blocks)-1]
		if last.EndLineNumber()+1 == lineNumber {
			last.appendLineTokens(tokens)
			return
		}
	}
	b.blocks = append(b.blocks, &MultilineTokens{
		startLineNumber: lineNumber,
		tokens:          [][]uint32{tokens},
	})
}

// Finalize returns the accumulated blocks and resets the builder.
func (b *MultilineTokensBuilder) Finalize() []*MultilineTokens {
	blocks := b.blocks
	b.blocks = nil
	return blocks
}
