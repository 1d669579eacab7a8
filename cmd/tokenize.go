package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/tokstore/highlight"
	"github.com/zjrosen/tokstore/internal/infrastructure/sqlite"
	"github.com/zjrosen/tokstore/internal/log"
	"github.com/zjrosen/tokstore/tokens"
)

var (
	tokenizeOutput  string
	tokenizeNoCache bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Tokenize a source file into a serialized token payload",
	Long: `Lex a source file with chroma, encode the result as multiline token
blocks, and write the serialized payload next to the file.

Repeat runs with unchanged content are served from the sqlite token cache.

Examples:
  tokstore tokenize main.go
  tokstore tokenize --language python --theme dracula script.txt
  tokstore tokenize -o /tmp/out.tok main.go`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().StringVarP(&tokenizeOutput, "output", "o", "",
		"output path (default: <file>.tok)")
	tokenizeCmd.Flags().BoolVar(&tokenizeNoCache, "no-cache", false,
		"skip the sqlite token cache")
	rootCmd.AddCommand(tokenizeCmd)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied input file
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	outPath := tokenizeOutput
	if outPath == "" {
		outPath = path + ".tok"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	sum := sha256.Sum256(data)
	contentHash := hex.EncodeToString(sum[:])

	language := cfg.Highlight.Language
	theme := cfg.Highlight.Theme

	var cache sqlite.TokenCacheRepository
	if cfg.Cache.Enabled && !tokenizeNoCache {
		db, dbErr := sqlite.NewDB(cachePath())
		if dbErr != nil {
			log.ErrorErr(log.CatCache, "Cache unavailable, tokenizing without it", dbErr)
		} else {
			defer func() { _ = db.Close() }()
			cache = db.TokenCache()
		}
	}

	if cache != nil {
		if entry, findErr := cache.Find(absPath, contentHash, language, theme); findErr == nil {
			if writeErr := os.WriteFile(outPath, entry.Payload, 0o644); writeErr != nil { //nolint:gosec // G306: artifact next to the source file
				return fmt.Errorf("writing %s: %w", outPath, writeErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				successStyle.Render("✓")+" "+outPath+dimStyle.Render(fmt.Sprintf(" (%d bytes, cached)", len(entry.Payload))))
			return nil
		}
	}

	h := highlight.New(language, path, theme)
	blocks, err := h.Blocks(string(data))
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", path, err)
	}
	payload, err := tokens.Serialize(blocks)
	if err != nil {
		return fmt.Errorf("serializing tokens for %s: %w", path, err)
	}

	if err := os.WriteFile(outPath, payload, 0o644); err != nil { //nolint:gosec // G306: artifact next to the source file
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if cache != nil {
		if saveErr := cache.Save(&sqlite.CacheEntry{
			Path:        absPath,
			ContentHash: contentHash,
			Language:    language,
			Theme:       theme,
			Payload:     payload,
		}); saveErr != nil {
			log.ErrorErr(log.CatCache, "Failed to save cache entry", saveErr, "path", absPath)
		}
	}

	lineCount := 0
	for _, b := range blocks {
		lineCount += b.LineCount()
	}
	fmt.Fprintln(cmd.OutOrStdout(),
		successStyle.Render("✓")+" "+outPath+
			dimStyle.Render(fmt.Sprintf(" (%s, %d lines, %d bytes)", h.Language(), lineCount, len(payload))))
	return nil
}
