package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"diagen/internal/source"
	"diagen/internal/token"
)

// FormatTokensPretty writes one token per line with its position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for _, tok := range tokens {
		pos := ""
		if fs != nil {
			start, _ := fs.Resolve(tok.Span)
			pos = fmt.Sprintf("%d:%d", start.Line, start.Col)
		}
		if tok.Text != "" {
			if _, err := fmt.Fprintf(w, "%-8s %-12s %q\n", pos, tok.Kind, tok.Text); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%-8s %s\n", pos, tok.Kind); err != nil {
			return err
		}
	}
	return nil
}

// TokenJSON is one token in JSON form.
type TokenJSON struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// FormatTokensJSON writes the token stream as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, TokenJSON{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Start: tok.Span.Start,
			End:   tok.Span.End,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
