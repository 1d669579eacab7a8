// Package highlight bridges the chroma lexer registry to the token store:
// it lexes source text, maps chroma token types onto token metadata, and
// emits the per-line encoded arrays the store consumes.
//
// Token offsets count runes, matching the store's column convention.
package highlight

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zjrosen/tokstore/internal/log"
	"github.com/zjrosen/tokstore/tokens"
)

// Language ids are assigned per lexer name, first come first served. The
// metadata layout carries eight bits; id 255 is shared once they run out.
var (
	languageIDMu   sync.Mutex
	languageIDs    = map[string]tokens.LanguageID{}
	nextLanguageID = tokens.LanguageID(1)
)

func languageIDFor(name string) tokens.LanguageID {
	languageIDMu.Lock()
	defer languageIDMu.Unlock()
	if id, ok := languageIDs[name]; ok {
		return id
	}
	if nextLanguageID == 0 {
		return 255
	}
	id := nextLanguageID
	languageIDs[name] = id
	nextLanguageID++
	return id
}

// Highlighter lexes source text with a chroma lexer and encodes the result
// in the store's token array format under one theme's color palette.
type Highlighter struct {
	lexer      chroma.Lexer
	style      *chroma.Style
	palette    *Palette
	languageID tokens.LanguageID
}

// New creates a Highlighter. The lexer is picked from the explicit language
// name when given, otherwise matched from the filename; unknown inputs fall
// back to the plaintext lexer. Unknown theme names fall back too.
func New(language, filename, theme string) *Highlighter {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil && filename != "" {
		lexer = lexers.Match(filename)
	}
	if lexer == nil {
		log.Debug(log.CatLexer, "No lexer matched, using fallback", "language", language, "filename", filename)
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)

	name := lexer.Config().Name
	defaultFg := ""
	defaultBg := ""
	if entry := style.Get(chroma.Text); entry.Colour.IsSet() {
		defaultFg = entry.Colour.String()
	}
	if entry := style.Get(chroma.Background); entry.Background.IsSet() {
		defaultBg = entry.Background.String()
	}

	return &Highlighter{
		lexer:      lexer,
		style:      style,
		palette:    NewPalette(defaultFg, defaultBg),
		languageID: languageIDFor(name),
	}
}

// Language returns the resolved lexer name.
func (h *Highlighter) Language() string {
	return h.lexer.Config().Name
}

// LanguageID returns the id carried in emitted token metadata.
func (h *Highlighter) LanguageID() tokens.LanguageID {
	return h.languageID
}

// Palette returns the color palette accumulated while encoding.
func (h *Highlighter) Palette() *Palette {
	return h.palette
}

// metadataFor resolves a chroma token type against the style and packs it.
func (h *Highlighter) metadataFor(t chroma.TokenType) tokens.Metadata {
	tokenType := tokens.TokenTypeOther
	switch {
	case t == chroma.LiteralStringRegex:
		tokenType = tokens.TokenTypeRegEx
	case t.InSubCategory(chroma.LiteralString):
		tokenType = tokens.TokenTypeString
	case t.InCategory(chroma.Comment):
		tokenType = tokens.TokenTypeComment
	}

	entry := h.style.Get(t)
	fontStyle := tokens.FontStyleNone
	if entry.Bold == chroma.Yes {
		fontStyle |= tokens.FontStyleBold
	}
	if entry.Italic == chroma.Yes {
		fontStyle |= tokens.FontStyleItalic
	}
	if entry.Underline == chroma.Yes {
		fontStyle |= tokens.FontStyleUnderline
	}

	foreground := tokens.DefaultForeground
	if entry.Colour.IsSet() {
		foreground = h.palette.Intern(entry.Colour.String())
	}
	background := tokens.DefaultBackground
	if entry.Background.IsSet() {
		background = h.palette.Intern(entry.Background.String())
	}

	return tokens.PackMetadata(h.languageID, tokenType, fontStyle, foreground, background)
}

// LineArrays lexes text and returns one encoded token array per line.
// Every returned array is non-nil; empty lines get the zero-length sentinel.
func (h *Highlighter) LineArrays(text string) ([][]uint32, error) {
	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenising with %s lexer: %w", h.Language(), err)
	}

	var lines [][]uint32
	current := make([]uint32, 0, 16)
	column := 0

	appendRun := func(meta tokens.Metadata) {
		// Adjacent runs with identical metadata collapse into one token.
		if n := len(current); n > 0 && current[n-1] == uint32(meta) {
			current[n-2] = uint32(column)
			return
		}
		current = append(current, uint32(column), uint32(meta))
	}

	for tok := it(); tok != chroma.EOF; tok = it() {
		meta := h.metadataFor(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, current)
				current = make([]uint32, 0, 16)
				column = 0
			}
			if part == "" {
				continue
			}
			column += utf8.RuneCountInString(part)
			appendRun(meta)
		}
	}
	lines = append(lines, current)
	return lines, nil
}

// Populate lexes text and installs every line's tokens into the store.
func (h *Highlighter) Populate(store *tokens.ContiguousStore, text string) error {
	arrays, err := h.LineArrays(text)
	if err != nil {
		return err
	}
	bufferLines := strings.Split(text, "\n")
	for i, arr := range arrays {
		store.SetTokens(h.languageID, i, utf8.RuneCountInString(bufferLines[i]), arr)
	}
	log.Debug(log.CatLexer, "Populated store", "lines", len(arrays), "language", h.Language())
	return nil
}

// Blocks lexes text and returns the result as serializable multiline blocks.
func (h *Highlighter) Blocks(text string) ([]*tokens.MultilineTokens, error) {
	arrays, err := h.LineArrays(text)
	if err != nil {
		return nil, err
	}
	builder := tokens.NewMultilineTokensBuilder()
	for i, arr := range arrays {
		builder.Add(i+1, arr)
	}
	return builder.Finalize(), nil
}
