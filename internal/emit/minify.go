package emit

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// minifyCSS re-lexes already-rendered CSS, drops comment tokens and
// collapses whitespace. FormatStyle already omits separators when
// Minified is set, so this second pass only needs to catch spacing left
// behind by hand-built templates (e.g. reset template spacing). A run of
// whitespace is removed next to ':', ';', ',', '{' and '}' and kept as a
// single space elsewhere, so "@media screen and (...)" and
// "@keyframes name" stay valid.
func minifyCSS(input string) string {
	lexer := css.NewLexer(parse.NewInputString(input))

	separator := func(tt css.TokenType) bool {
		switch tt {
		case css.ErrorToken, css.ColonToken, css.SemicolonToken, css.CommaToken, css.LeftBraceToken, css.RightBraceToken:
			return true
		}
		return false
	}

	var b strings.Builder
	prev := css.ErrorToken
	pendingSpace := false
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.WhitespaceToken || tt == css.CommentToken {
			pendingSpace = true
			continue
		}
		if pendingSpace && !separator(prev) && !separator(tt) {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.Write(text)
		prev = tt
	}
	return b.String()
}
