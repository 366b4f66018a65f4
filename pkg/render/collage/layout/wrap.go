package layout

import "unicode"

const (
	// FallbackLineWidth is the maximum characters per fallback text line.
	FallbackLineWidth = 16

	// FallbackMaxLines caps the lines drawn on a fallback tile.
	FallbackMaxLines = 6

	tabWidth = 8
)

// WrapText breaks s into lines of at most width characters.
//
// Tabs expand to 8-column stops and every other ASCII whitespace character
// becomes a space. The text is split into chunks at whitespace and after
// hyphens inside hyphenated words ("Mother-" "in-" "Law's"). Chunks are packed
// greedily; whitespace inside a line is kept, whitespace at the end of a line
// and at the start of every line but the first is dropped. A chunk wider than
// a line is split, preferring a cut right after its last hyphen that fits.
func WrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	text := normalizeSpace(s)
	chunks := splitChunks(text)

	var lines []string
	for len(chunks) > 0 {
		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
		}

		var cur []rune
		for len(chunks) > 0 && len(cur)+len(chunks[0]) <= width {
			cur = append(cur, chunks[0]...)
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && len(chunks[0]) > width {
			if end := width - len(cur); end > 0 {
				chunk := chunks[0]
				if cut := lastHyphen(chunk, end); cut > 0 {
					end = cut + 1
				}
				cur = append(cur, chunk[:end]...)
				chunks[0] = chunk[end:]
			}
		}

		cur = cur[:len(cur)-trailingSpace(cur)]
		if len(cur) > 0 {
			lines = append(lines, string(cur))
		}
	}
	return lines
}

// FallbackLines returns the lines drawn on a fallback tile for title:
// wrapped at FallbackLineWidth and cut to FallbackMaxLines without ellipsis.
func FallbackLines(title string) []string {
	lines := WrapText(title, FallbackLineWidth)
	if len(lines) > FallbackMaxLines {
		lines = lines[:FallbackMaxLines]
	}
	return lines
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLetter(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isWord(r rune) bool { return isLetter(r) || unicode.IsDigit(r) }

// isWordPunct reports characters after which a "--" dash run may start.
func isWordPunct(r rune) bool {
	switch r {
	case '!', '"', '\'', '&', '.', ',', '?':
		return true
	}
	return isWord(r)
}

func normalizeSpace(s string) []rune {
	out := make([]rune, 0, len(s))
	col := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			for i := 0; i < n; i++ {
				out = append(out, ' ')
			}
			col += n
		case r == '\n' || r == '\r':
			out = append(out, ' ')
			col = 0
		case isSpace(r):
			out = append(out, ' ')
			col++
		default:
			out = append(out, r)
			col++
		}
	}
	return out
}

// splitChunks cuts text into whitespace runs, dash runs between words and
// word pieces that end after a breakable hyphen.
func splitChunks(text []rune) [][]rune {
	var chunks [][]rune
	at := func(i int) rune {
		if i < 0 || i >= len(text) {
			return 0
		}
		return text[i]
	}
	dashRun := func(i int) int {
		n := 0
		for at(i+n) == '-' {
			n++
		}
		return n
	}

	for i := 0; i < len(text); {
		start := i
		switch {
		case isSpace(text[i]):
			for i < len(text) && isSpace(text[i]) {
				i++
			}
		case isWordPunct(at(i-1)) && dashRun(i) >= 2 && isWord(at(i+dashRun(i))):
			i += dashRun(i)
		default:
			i = wordEnd(text, i, at, dashRun)
		}
		chunks = append(chunks, text[start:i])
	}
	return chunks
}

// wordEnd returns the end of the shortest word piece starting at start: just
// past a breakable hyphen, before whitespace, or before a dash run.
func wordEnd(text []rune, start int, at func(int) rune, dashRun func(int) int) int {
	for j := start + 1; j <= len(text); j++ {
		if j == len(text) || isSpace(text[j]) {
			return j
		}
		if text[j] == '-' {
			before := (isLetter(at(j-2)) && isLetter(at(j-1))) ||
				(isLetter(at(j-3)) && at(j-2) == '-' && isLetter(at(j-1)))
			after := isLetter(at(j+1)) &&
				(isLetter(at(j+2)) || (at(j+2) == '-' && isLetter(at(j+3))))
			if before && after {
				return j + 1
			}
			if isWordPunct(at(j-1)) && dashRun(j) >= 2 && isWord(at(j+dashRun(j))) {
				return j
			}
		}
	}
	return len(text)
}

// lastHyphen returns the index of the last hyphen in chunk[:limit] that has a
// non-hyphen before it, or -1.
func lastHyphen(chunk []rune, limit int) int {
	if limit > len(chunk) {
		return -1
	}
	for i := limit - 1; i > 0; i-- {
		if chunk[i] != '-' {
			continue
		}
		for _, r := range chunk[:i] {
			if r != '-' {
				return i
			}
		}
		return -1
	}
	return -1
}

func isBlank(chunk []rune) bool {
	for _, r := range chunk {
		if r != ' ' {
			return false
		}
	}
	return true
}

func trailingSpace(line []rune) int {
	n := 0
	for n < len(line) && line[len(line)-1-n] == ' ' {
		n++
	}
	return n
}
