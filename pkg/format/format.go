// Package format contains the small string helpers used when presenting
// titles, IDs and pack metadata to the user.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// DefaultMaxScore is the title budget that fits a list item on screen.
const DefaultMaxScore = 140

// ListItemTitle shortens s so that it fits in a list item. Every uppercase
// rune costs 4, every other rune 3; once the running cost exceeds maxScore the
// title is cut one rune before the offending one and an ellipsis is appended.
func ListItemTitle(s string, maxScore int) string {
	runes := []rune(s)
	score := 0
	for i, r := range runes {
		if unicode.IsUpper(r) {
			score += 4
		} else {
			score += 3
		}
		if score > maxScore {
			cut := i - 1
			if cut < 0 {
				cut = 0
			}
			return string(runes[:cut]) + "…"
		}
	}
	return s
}

// ApplicationID renders a title ID the way it appears in SD card paths.
func ApplicationID(id uint64) string {
	return fmt.Sprintf("%016X", id)
}

// Lower maps ASCII letters to lowercase, leaving every other byte alone.
func Lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Upper maps ASCII letters to uppercase, leaving every other byte alone.
func Upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

const packMarker = "{GMPACK"

// PackVersion extracts the pack version suffix from a pack version file. The
// first line containing the GMPACK marker has its enclosing braces stripped
// and is returned as " - <line>". An empty string is returned if there is no
// such line.
func PackVersion(r io.Reader) string {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.Contains(line, packMarker) {
			return " - " + line[1:len(line)-1]
		}
	}
	return ""
}
