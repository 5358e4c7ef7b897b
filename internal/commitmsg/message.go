// Package commitmsg parses, formats and post-processes commit messages.
package commitmsg

import (
	"regexp"
	"strings"
)

// MaxLineLength is the column width commit message lines are wrapped to.
const MaxLineLength = 72

var markRegex = regexp.MustCompile(`^[a-zA-Z-]+:\s*.+$`)

const scissorsLine = "# ------------------------ >8 ------------------------"

// Message is a commit message split into title, body and trailer marks.
type Message struct {
	Title string
	Body  string
	Marks []string
}

// Parse splits raw into a Message. The first line is the title, lines that
// look like "Key: value" are marks, and git comment lines are dropped.
func Parse(raw string) *Message {
	lines := splitLines(raw)

	m := &Message{}
	i := 0
	for ; i < len(lines); i++ {
		if !isComment(lines[i]) && strings.TrimSpace(lines[i]) != "" {
			m.Title = strings.TrimSpace(lines[i])
			i++
			break
		}
	}

	var body []string
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == scissorsLine {
			break
		}
		if isComment(line) {
			continue
		}
		switch {
		case strings.TrimSpace(line) == "":
			if len(body) == 0 {
				continue
			}
			body = append(body, "")
		case markRegex.MatchString(line):
			m.Marks = append(m.Marks, line)
		default:
			body = append(body, line)
		}
	}

	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	m.Body = strings.Join(body, "\n")
	return m
}

// String formats the message: title, blank line, body, blank line, marks.
func (m *Message) String() string {
	parts := []string{m.Title}
	if m.Body != "" {
		parts = append(parts, "", m.Body)
	}
	if len(m.Marks) > 0 {
		parts = append(parts, "")
		parts = append(parts, m.Marks...)
	}
	return strings.Join(parts, "\n")
}

// HasMark reports whether the message has a mark with the given key.
func (m *Message) HasMark(key string) bool {
	prefix := strings.ToLower(key) + ":"
	for _, mark := range m.Marks {
		if strings.HasPrefix(strings.ToLower(mark), prefix) {
			return true
		}
	}
	return false
}

// WithMarks appends marks that are not already present.
func (m *Message) WithMarks(marks ...string) *Message {
	for _, mark := range marks {
		mark = strings.TrimSpace(mark)
		if mark == "" || containsMark(m.Marks, mark) {
			continue
		}
		m.Marks = append(m.Marks, mark)
	}
	return m
}

func containsMark(marks []string, mark string) bool {
	for _, existing := range marks {
		if strings.TrimSpace(existing) == mark {
			return true
		}
	}
	return false
}

// PreserveChangeID copies Change-Id marks from old into m when m has none.
func (m *Message) PreserveChangeID(old *Message) *Message {
	if old == nil || m.HasMark("Change-Id") {
		return m
	}
	for _, mark := range old.Marks {
		if strings.HasPrefix(strings.ToLower(mark), "change-id:") {
			m.Marks = append(m.Marks, mark)
		}
	}
	return m
}

// Bilingual builds the translated message: English title, then the English
// body, the original title and the original body. Marks are kept.
func Bilingual(enTitle, enBody string, original *Message) *Message {
	var parts []string
	if enBody = strings.TrimSpace(enBody); enBody != "" {
		parts = append(parts, WrapLines(enBody, MaxLineLength), "")
	}
	parts = append(parts, original.Title)
	if original.Body != "" {
		parts = append(parts, "", WrapLines(original.Body, MaxLineLength))
	}

	return &Message{
		Title: Wrap(strings.TrimSpace(enTitle), MaxLineLength),
		Body:  strings.Join(parts, "\n"),
		Marks: append([]string(nil), original.Marks...),
	}
}

// ContainsChinese reports whether s contains a CJK unified ideograph.
func ContainsChinese(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// IsAutoGenerated reports whether a title was produced by git itself.
func IsAutoGenerated(title string) bool {
	return strings.HasPrefix(title, "Merge") ||
		strings.HasPrefix(title, "Cherry-pick") ||
		strings.HasPrefix(title, "Revert")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#")
}
