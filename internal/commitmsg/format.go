package commitmsg

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// EnsureType makes the first line of msg start with an allowed type.
// A disallowed type is replaced by allowed[0]; a title without a type is
// prefixed with it. A scope or breaking-change marker is kept.
func EnsureType(msg string, allowed []string) string {
	if len(allowed) == 0 {
		return msg
	}

	title, rest, multiline := strings.Cut(msg, "\n")
	if multiline {
		rest = "\n" + rest
	}

	head, subject, found := strings.Cut(title, ":")
	if !found {
		return fmt.Sprintf("%s: %s", allowed[0], strings.TrimSpace(title)) + rest
	}

	typ, suffix := splitType(strings.TrimSpace(head))
	for _, a := range allowed {
		if typ == a {
			return msg
		}
	}
	if !isTypeToken(typ) && !hasNonASCII(typ) {
		// The colon belongs to the subject, not to a type prefix.
		return fmt.Sprintf("%s: %s", allowed[0], strings.TrimSpace(title)) + rest
	}
	return fmt.Sprintf("%s%s: %s", allowed[0], suffix, strings.TrimSpace(subject)) + rest
}

// splitType splits "feat(api)!" into "feat" and "(api)!".
func splitType(head string) (string, string) {
	if i := strings.IndexAny(head, "(!"); i >= 0 {
		return head[:i], head[i:]
	}
	return head, ""
}

// hasNonASCII reports whether s holds a non-ASCII rune, as in a
// localized type such as "修复".
func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

func isTypeToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

// Wrap word-wraps a single line at width display columns. Wide characters
// count as two columns and may break anywhere; words longer than width are split.
func Wrap(line string, width int) string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return line
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	toks := tokenize(line[len(indent):])

	var out []string
	cur := indent
	col := runewidth.StringWidth(indent)
	empty := true

	flush := func() {
		out = append(out, strings.TrimRight(cur, " "))
		cur, col, empty = "", 0, true
	}

	for _, tok := range toks {
		text := tok.text
		w := runewidth.StringWidth(text)
		for w > width {
			head := runewidth.Truncate(text, width, "")
			if head == "" {
				break
			}
			if !empty {
				flush()
			}
			out = append(out, head)
			text = text[len(head):]
			w = runewidth.StringWidth(text)
		}
		if text == "" {
			continue
		}

		sep := 0
		if tok.space && !empty {
			sep = 1
		}
		if !empty && col+sep+w > width {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur += " "
		}
		cur += text
		col += sep + w
		empty = false
	}
	if !empty {
		flush()
	}
	return strings.Join(out, "\n")
}

// WrapLines wraps every line of text, leaving blank lines alone.
func WrapLines(text string, width int) string {
	lines := splitLines(text)
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = Wrap(l, width)
		}
	}
	return strings.Join(lines, "\n")
}

type token struct {
	text  string
	space bool // preceded by whitespace
}

// tokenize splits on spaces and treats every wide rune as its own token.
func tokenize(s string) []token {
	var toks []token
	var word strings.Builder
	space := false

	emit := func() {
		if word.Len() > 0 {
			toks = append(toks, token{text: word.String(), space: space})
			word.Reset()
			space = false
		}
	}

	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			emit()
			space = true
		case runewidth.RuneWidth(r) == 2:
			emit()
			toks = append(toks, token{text: string(r), space: space})
			space = false
		default:
			word.WriteRune(r)
		}
	}
	emit()
	return toks
}

var (
	githubIssueRegex = regexp.MustCompile(`^https?://github\.com/([^/\s]+)/([^/\s]+)/issues/(\d+)/?$`)
	localIssueRegex  = regexp.MustCompile(`^#?(\d+)$`)
	pmsRegex         = regexp.MustCompile(`(bug|task|story)-view-(\d+)`)
)

// IssueMarks converts issue references into trailer marks. GitHub issue
// URLs and #N become "Fixes:" marks; PMS bug, task and story links become
// "PMS:" marks. repoSlug is the owner/repo of the current repository.
func IssueMarks(refs []string, repoSlug string) ([]string, error) {
	var marks []string
	for _, raw := range refs {
		for _, ref := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
			mark, err := issueMark(ref, repoSlug)
			if err != nil {
				return nil, err
			}
			if !containsMark(marks, mark) {
				marks = append(marks, mark)
			}
		}
	}
	return marks, nil
}

func issueMark(ref, repoSlug string) (string, error) {
	if m := githubIssueRegex.FindStringSubmatch(ref); m != nil {
		slug := m[1] + "/" + m[2]
		if strings.EqualFold(slug, repoSlug) {
			return "Fixes: #" + m[3], nil
		}
		return fmt.Sprintf("Fixes: %s#%s", slug, m[3]), nil
	}
	if m := localIssueRegex.FindStringSubmatch(ref); m != nil {
		return "Fixes: #" + m[1], nil
	}
	if m := pmsRegex.FindStringSubmatch(ref); m != nil {
		return fmt.Sprintf("PMS: %s-%s", strings.ToUpper(m[1]), m[2]), nil
	}
	return "", fmt.Errorf("unrecognized issue reference: %s", ref)
}
