// Package tokens implements an incremental token-range store for editable
// text buffers. It tracks per-line highlighting metadata and keeps it
// positionally correct across insertions and deletions without re-tokenizing
// untouched regions.
//
// Two representations are provided. ContiguousStore keeps one encoded token
// array per line, fed by a lexical tokenizer line by line. SparseStore keeps
// multiline blocks of individually positioned tokens, fed wholesale by a
// semantic provider, and can overlay its coloring onto the contiguous result
// at read time.
//
// Encoded token arrays are []uint32 slices alternating (endOffset, metadata)
// pairs with strictly increasing end offsets; the last end offset equals the
// line's text length. A nil slice means "line not tokenized yet" and a
// non-nil zero-length slice is the empty-line sentinel: one default token
// spanning an empty line, stored without allocation.
package tokens

// Metadata packs everything the renderer needs to know about one token into
// a single uint32:
//
//	bits  0-7   language id
//	bits  8-9   standard token type (other/comment/string/regex)
//	bit   10    balanced-bracket flag
//	bits 11-14  font style (italic, bold, underline, strikethrough)
//	bits 15-23  foreground color id
//	bits 24-31  background color id
//
// The store treats metadata as opaque except during overlay merging, where
// the language id and token type bits are read.
type Metadata uint32

// Bit masks and shifts for the Metadata layout.
const (
	LanguageIDMask       Metadata = 0x000000ff
	TokenTypeMask        Metadata = 0x00000300
	BalancedBracketsMask Metadata = 0x00000400
	FontStyleMask        Metadata = 0x00007800
	ForegroundMask       Metadata = 0x00ff8000
	BackgroundMask       Metadata = 0xff000000

	languageIDShift = 0
	tokenTypeShift  = 8
	fontStyleShift  = 11
	foregroundShift = 15
	backgroundShift = 24
)

// languageAndTypeMask covers the bits an overlay merge preserves from the
// lexical tokenization.
const languageAndTypeMask = LanguageIDMask | TokenTypeMask

// LanguageID identifies the language a token was produced for.
type LanguageID uint8

// StandardTokenType is the coarse lexical classification carried in bits 8-9.
type StandardTokenType uint32

const (
	TokenTypeOther StandardTokenType = iota
	TokenTypeComment
	TokenTypeString
	TokenTypeRegEx
)

// FontStyle holds the style bits carried in bits 11-14.
type FontStyle uint32

const (
	FontStyleNone          FontStyle = 0
	FontStyleItalic        FontStyle = 1
	FontStyleBold          FontStyle = 2
	FontStyleUnderline     FontStyle = 4
	FontStyleStrikethrough FontStyle = 8
)

// ColorID indexes into a theme's color table.
type ColorID uint32

// Reserved color table entries.
const (
	DefaultForeground ColorID = 1
	DefaultBackground ColorID = 2
)

// PackMetadata assembles a Metadata value from its parts.
func PackMetadata(languageID LanguageID, tokenType StandardTokenType, style FontStyle, foreground, background ColorID) Metadata {
	return Metadata(languageID)<<languageIDShift |
		Metadata(tokenType)<<tokenTypeShift |
		Metadata(style)<<fontStyleShift |
		Metadata(foreground)<<foregroundShift |
		Metadata(background)<<backgroundShift
}

// DefaultMetadata is the metadata synthesized for un-tokenized content:
// plain text in the buffer's language with the theme's default colors.
func DefaultMetadata(languageID LanguageID) Metadata {
	return PackMetadata(languageID, TokenTypeOther, FontStyleNone, DefaultForeground, DefaultBackground)
}

// LanguageID returns the language id bits.
func (m Metadata) LanguageID() LanguageID {
	return LanguageID((m & LanguageIDMask) >> languageIDShift)
}

// TokenType returns the standard token type bits.
func (m Metadata) TokenType() StandardTokenType {
	return StandardTokenType((m & TokenTypeMask) >> tokenTypeShift)
}

// FontStyle returns the font style bits.
func (m Metadata) FontStyle() FontStyle {
	return FontStyle((m & FontStyleMask) >> fontStyleShift)
}

// Foreground returns the foreground color id.
func (m Metadata) Foreground() ColorID {
	return ColorID((m & ForegroundMask) >> foregroundShift)
}

// Background returns the background color id.
func (m Metadata) Background() ColorID {
	return ColorID((m & BackgroundMask) >> backgroundShift)
}
