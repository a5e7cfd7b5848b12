package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_DropsBlankLines(t *testing.T) {
	in := "first line\n\n   \nsecond line"
	assert.Equal(t, "first line\nsecond line", CleanText(in))
}

func TestCleanText_TrimsLines(t *testing.T) {
	in := "  indented body  \n\ttabbed body\t"
	assert.Equal(t, "indented body\ntabbed body", CleanText(in))
}

func TestCleanText_DropsHeaderFooterFurniture(t *testing.T) {
	in := "Page 42\nReal content about storage pools\nCopyright 2024 Publisher\nAll rights reserved\nMore real content"
	assert.Equal(t, "Real content about storage pools\nMore real content", CleanText(in))
}

func TestCleanText_FurnitureMatchIsCaseInsensitive(t *testing.T) {
	in := "CONFIDENTIAL\nbody text"
	assert.Equal(t, "body text", CleanText(in))
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("\n\n\n"))
}
