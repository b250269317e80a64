package style

import "strings"

// maskLine blanks out string-literal contents so the rule checks never
// match operators or commas inside strings, locates the comment start, and
// keeps the persistent bracket depth up to date for continuation tracking.
func (st *scanState) maskLine(raw string) ([]rune, int) {
	runes := []rune(raw)
	masked := make([]rune, len(runes))
	copy(masked, runes)
	commentIdx := -1

	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '\'' || r == '"' {
			if i+2 < len(runes) && runes[i+1] == r && runes[i+2] == r {
				close := indexTriple(runes, i+3, r)
				if close < 0 {
					for j := i; j < len(runes); j++ {
						masked[j] = ' '
					}
					st.inTriple = true
					st.tripleQuote = strings.Repeat(string(r), 3)
					return masked, commentIdx
				}
				for j := i; j < close+3; j++ {
					masked[j] = ' '
				}
				i = close + 3
				continue
			}

			j := i + 1
			for j < len(runes) {
				if runes[j] == '\\' {
					j += 2
					continue
				}
				if runes[j] == r {
					break
				}
				j++
			}
			end := j
			if end >= len(runes) {
				end = len(runes) - 1
			}
			for k := i; k <= end; k++ {
				masked[k] = ' '
			}
			i = end + 1
			continue
		}

		if r == '#' {
			commentIdx = i
			break
		}

		switch r {
		case '(', '[', '{':
			st.parenDepth++
		case ')', ']', '}':
			if st.parenDepth > 0 {
				st.parenDepth--
			}
		}
		i++
	}

	return masked, commentIdx
}

func indexTriple(runes []rune, from int, quote rune) int {
	for i := from; i+2 < len(runes); i++ {
		if runes[i] == quote && runes[i+1] == quote && runes[i+2] == quote {
			return i
		}
	}
	return -1
}

// consumeTripleTail scans a line that started inside a triple-quoted
// string and clears the state once the closing quotes appear.
func (st *scanState) consumeTripleTail(raw string) {
	if strings.Contains(raw, st.tripleQuote) {
		st.inTriple = false
		st.tripleQuote = ""
	}
}
