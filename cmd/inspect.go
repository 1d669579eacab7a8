package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/tokstore/tokens"
)

var inspectShowTokens bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.tok>",
	Short: "Decode a serialized token payload and print its structure",
	Long: `Decode a payload written by 'tokstore tokenize' and print its blocks
and lines. With --tokens every token is printed with its end offset and
decoded metadata fields.

Examples:
  tokstore inspect main.go.tok
  tokstore inspect --tokens main.go.tok`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectShowTokens, "tokens", "t", false,
		"print every token with decoded metadata")
	rootCmd.AddCommand(inspectCmd)
}

var (
	blockHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	lineNumberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(6).Align(lipgloss.Right)
	tokenStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	payload, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied input file
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	blocks, err := tokens.Deserialize(payload)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d block(s), %d bytes\n", blockHeaderStyle.Render(path+":"), len(blocks), len(payload))

	for i, block := range blocks {
		fmt.Fprintln(out, blockHeaderStyle.Render(
			fmt.Sprintf("block %d: lines %d-%d (%d lines)", i, block.StartLineNumber(), block.EndLineNumber(), block.LineCount())))

		for line := block.StartLineNumber(); line <= block.EndLineNumber(); line++ {
			arr := block.GetLineTokens(line)
			view := tokens.NewLineTokens(arr, "")
			fmt.Fprintf(out, "%s  %d token(s)\n", lineNumberStyle.Render(fmt.Sprintf("%d", line)), view.Count())
			if !inspectShowTokens {
				continue
			}
			for tok := 0; tok < view.Count(); tok++ {
				meta := view.GetMetadata(tok)
				fmt.Fprintf(out, "%s    %s\n", lineNumberStyle.Render(""), tokenStyle.Render(fmt.Sprintf(
					"[%d-%d) lang=%d type=%s style=%s fg=%d bg=%d",
					view.GetStartCharacter(tok), view.GetEndCharacter(tok),
					meta.LanguageID(), tokenTypeName(meta.TokenType()), fontStyleName(meta.FontStyle()),
					meta.Foreground(), meta.Background())))
			}
		}
	}
	return nil
}

func tokenTypeName(t tokens.StandardTokenType) string {
	switch t {
	case tokens.TokenTypeComment:
		return "comment"
	case tokens.TokenTypeString:
		return "string"
	case tokens.TokenTypeRegEx:
		return "regex"
	default:
		return "other"
	}
}

func fontStyleName(s tokens.FontStyle) string {
	if s == tokens.FontStyleNone {
		return "none"
	}
	var parts []string
	if s&tokens.FontStyleItalic != 0 {
		parts = append(parts, "italic")
	}
	if s&tokens.FontStyleBold != 0 {
		parts = append(parts, "bold")
	}
	if s&tokens.FontStyleUnderline != 0 {
		parts = append(parts, "underline")
	}
	if s&tokens.FontStyleStrikethrough != 0 {
		parts = append(parts, "strikethrough")
	}
	return strings.Join(parts, "+")
}
