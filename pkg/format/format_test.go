package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListItemTitle(t *testing.T) {
	for i, te := range []struct {
		in       string
		maxScore int
		want     string
	}{
		{"short", DefaultMaxScore, "short"},
		{"", DefaultMaxScore, ""},
		// 4 lowercase runes score 12, the 5th pushes it to 15 > 13.
		{"abcdefgh", 13, "abc…"},
		// uppercase costs more: A=4, B=8, C=12, D=16 > 13.
		{"ABCDEFGH", 13, "AB…"},
		{"abcd", 12, "abcd"},
		{"abcdefgh", 2, "…"},
		{"ábcdéfgh", 13, "ábc…"},
	} {
		if got := ListItemTitle(te.in, te.maxScore); got != te.want {
			t.Errorf("%d: ListItemTitle(%q, %d) = %q, want %q", i, te.in, te.maxScore, got, te.want)
		}
	}
}

func TestApplicationID(t *testing.T) {
	assert.Equal(t, "0100000000001000", ApplicationID(0x0100000000001000))
	assert.Equal(t, "01006F8002326000", ApplicationID(0x01006f8002326000))
	assert.Equal(t, "0000000000000000", ApplicationID(0))
}

func TestCase(t *testing.T) {
	assert.Equal(t, "01006f8002326000", Lower("01006F8002326000"))
	assert.Equal(t, "01006F8002326000", Upper("01006f8002326000"))
	assert.Equal(t, "ÉCOLE", Upper("École"))
	assert.Equal(t, "mixed-case_1", Lower("MiXeD-CaSe_1"))
}

func TestPackVersion(t *testing.T) {
	in := strings.Join([]string{
		"Pack information",
		"{GMPACK 7.2.1}",
		"{GMPACK 9.9.9}",
	}, "\n")
	assert.Equal(t, " - GMPACK 7.2.1", PackVersion(strings.NewReader(in)))
	assert.Equal(t, " - GMPACK 1.0", PackVersion(strings.NewReader("{GMPACK 1.0}\r\n")))
	assert.Equal(t, "", PackVersion(strings.NewReader("nothing here\n")))
	assert.Equal(t, "", PackVersion(strings.NewReader("")))
}
