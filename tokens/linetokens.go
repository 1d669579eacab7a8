package tokens

// LineTokens is an immutable, line-scoped view over an encoded token array.
// It is derived on demand from the stored array plus the line's current text
// and must not outlive the next mutation of the owning store.
type LineTokens struct {
	tokens []uint32
	text   string
}

// NewLineTokens wraps an encoded token array and the line text it covers.
// The array is not copied; the caller retains ownership.
func NewLineTokens(tokens []uint32, text string) LineTokens {
	return LineTokens{tokens: tokens, text: text}
}

// Count returns the number of tokens on the line.
func (l LineTokens) Count() int {
	return len(l.tokens) >> 1
}

// LineContent returns the text of the line this view covers.
func (l LineTokens) LineContent() string {
	return l.text
}

// GetStartCharacter returns the start offset of token i.
func (l LineTokens) GetStartCharacter(i int) int {
	if i == 0 {
		return 0
	}
	return int(l.tokens[(i-1)<<1])
}

// GetEndCharacter returns the end offset of token i.
func (l LineTokens) GetEndCharacter(i int) int {
	return int(l.tokens[i<<1])
}

// GetMetadata returns the metadata of token i.
func (l LineTokens) GetMetadata(i int) Metadata {
	return Metadata(l.tokens[(i<<1)+1])
}
