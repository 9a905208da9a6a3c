package canonicalize

import (
	"strings"

	"github.com/gorilla/css/scanner"
)

// CSS rewrites every url(...) reference in a CSS stylesheet (or an inline
// style attribute's value). Tokens are re-emitted verbatim except for URI
// tokens, which are unwrapped, rewritten, and re-wrapped — this keeps the
// rest of the stylesheet byte-for-byte as scanned rather than
// re-serializing from a parsed model.
func CSS(content, root, targetPath string) (string, error) {
	s := scanner.New(content)
	var buf strings.Builder

	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenError {
			return "", fullError(tok)
		}
		if tok.Type == scanner.TokenURI {
			buf.WriteString(rewriteCSSURI(tok.Value, root, targetPath))
			continue
		}
		buf.WriteString(tok.Value)
	}
	return buf.String(), nil
}

func fullError(tok *scanner.Token) error {
	return &cssError{msg: tok.Value, line: tok.Line, column: tok.Column}
}

type cssError struct {
	msg    string
	line   int
	column int
}

func (e *cssError) Error() string {
	return "canonicalize: css scan error: " + e.msg
}

// rewriteCSSURI unwraps a scanned `url(...)` token (optionally quoted),
// rewrites the inner reference, and re-wraps it in the same quote style.
func rewriteCSSURI(raw, root, targetPath string) string {
	inner := strings.TrimSpace(raw)
	inner = strings.TrimPrefix(inner, "url(")
	inner = strings.TrimSuffix(inner, ")")
	inner = strings.TrimSpace(inner)

	quote := ""
	if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[len(inner)-1] == inner[0] {
		quote = string(inner[0])
		inner = inner[1 : len(inner)-1]
	}

	rewritten := rewriteURL(inner, root, targetPath)
	return "url(" + quote + rewritten + quote + ")"
}
