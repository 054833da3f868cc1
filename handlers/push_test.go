package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate_ShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "Morning Calm", truncate("Morning Calm", 100))
}

func TestTruncate_LongStringGetsEllipsis(t *testing.T) {
	got := truncate(strings.Repeat("a", 150), 100)
	assert.Equal(t, strings.Repeat("a", 100)+"...", got)
}

func TestTruncate_MultiByteRunesStayValid(t *testing.T) {
	got := truncate(strings.Repeat("é", 150), 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}
