package template

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/aerstatic/aer/internal/ctxval"
)

// delimiterLine is the line that terminates a frontmatter prelude
// (spec §6).
const delimiterLine = "***"

// ExtractFrontmatter splits content at the first line consisting solely of
// "***" and parses everything before it as TOML. If there is no such line,
// or the prelude doesn't parse as TOML, content has no frontmatter: the
// whole of it is the body and the returned table is empty (spec §6: an
// asset "begins with frontmatter when its first bytes ... parse as TOML up
// to" the delimiter line — a coincidental "***" deeper in the file, or one
// whose prelude isn't valid TOML, doesn't count).
func ExtractFrontmatter(content string) (ctxval.Value, string) {
	start, end, found := findDelimiterLine(content)
	if !found {
		return ctxval.NewTable(), content
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal([]byte(content[:start]), &raw); err != nil {
		return ctxval.NewTable(), content
	}
	return ctxval.FromAny(raw), content[end:]
}

// findDelimiterLine returns the byte offsets of the first line that is
// exactly "***" (ignoring a trailing \r), with end including that line's
// trailing newline so content[:start] + content[start:end] + content[end:]
// always reconstructs the original string exactly.
func findDelimiterLine(content string) (start, end int, found bool) {
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == delimiterLine {
			return offset, offset + len(line), true
		}
		offset += len(line)
	}
	return 0, 0, false
}
