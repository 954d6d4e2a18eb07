package search

import (
	"bufio"
	"strings"
)

// StripMarkdown removes markdown decoration from generated post text so that
// tokenization sees words, not formatting. Heading markers, blockquote and
// list prefixes, emphasis runs, and inline code ticks are dropped; link text
// is kept and its target discarded. Blank lines collapse to one.
func StripMarkdown(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	wroteBlank := true // start true to avoid a leading blank
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			if !wroteBlank {
				b.WriteByte('\n')
				wroteBlank = true
			}
			continue
		}

		line = strings.TrimLeft(line, "#> ")
		line = trimListPrefix(line)
		line = stripInline(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !wroteBlank {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		wroteBlank = false
	}
	return strings.TrimSpace(b.String())
}

// trimListPrefix drops a leading bullet ("- ", "* ", "+ ") or a numbered
// prefix like "3. ".
func trimListPrefix(line string) string {
	if len(line) >= 2 && (line[0] == '-' || line[0] == '*' || line[0] == '+') && line[1] == ' ' {
		return line[2:]
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && line[i] == '.' && line[i+1] == ' ' {
		return line[i+2:]
	}
	return line
}

// stripInline removes emphasis and code markers and unwraps [text](url) links.
func stripInline(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '*', '_', '`':
			continue
		case '[':
			end := strings.IndexByte(line[i:], ']')
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(line[i+1 : i+end])
			i += end
			// skip a "(url)" immediately after the closing bracket
			if i+1 < len(line) && line[i+1] == '(' {
				if close := strings.IndexByte(line[i+1:], ')'); close >= 0 {
					i += 1 + close
				}
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
