package listcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStoragePlainText(t *testing.T) {
	assert.Equal(t, "<li>a</li><li>b</li><li>c</li>", ToStorage("a\nb\nc"))
	assert.Equal(t, "<li>first line</li><li>second</li>", ToStorage("  first line \r\n\n\n second\n"))
	assert.Equal(t, "", ToStorage(" \n\t\n"))
}

func TestRoundTrip(t *testing.T) {
	stored := ToStorage("a\nb\nc")
	require.Equal(t, "<li>a</li><li>b</li><li>c</li>", stored)
	assert.Equal(t, "a\nb\nc", ToEditableText(stored))

	lines := ToDisplayLines(stored)
	require.Len(t, lines, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, lines[i].Text)
		assert.False(t, lines[i].Quoted)
	}
}

func TestRoundTripKeepsLinesForLineOrientedText(t *testing.T) {
	inputs := []string{
		"상담 완료",
		"전화 상담\n서류 안내\n> 학부모 요청: 오전 실습 희망",
		"x\ny",
	}
	for _, in := range inputs {
		assert.Equal(t, in, ToEditableText(ToStorage(in)))
	}
}

func TestQuotedLineDetection(t *testing.T) {
	lines := ToDisplayLines(ToStorage("> note\nok"))
	require.Len(t, lines, 2)
	assert.Equal(t, DisplayLine{Text: "> note", Quoted: true}, lines[0])
	assert.Equal(t, DisplayLine{Text: "ok", Quoted: false}, lines[1])
}

func TestToStorageRepairsNestedTags(t *testing.T) {
	assert.Equal(t, "<li>x</li>", ToStorage("<li><li>x</li></li>"))
	assert.Equal(t, "<li>x</li>", ToStorage("<li><li><li>x</li></li></li>"))
	assert.Equal(t, "<li>a</li><li>b</li>", ToStorage("<li><li>a</li></li><li> b </li>"))
	assert.Equal(t, "<li>a</li><li>b</li>", ToStorage("<LI>a</LI>\n<li></li><li>b</li>"))
}

func TestToStorageIsStableOnStoredValues(t *testing.T) {
	stored := ToStorage("one\ntwo")
	assert.Equal(t, stored, ToStorage(stored))
}

func TestToStorageKeepsTextOutsideTags(t *testing.T) {
	assert.Equal(t, "<li>intro</li><li>a</li>", ToStorage("intro<li>a</li>"))
}

func TestToEditableTextUntaggedUnchanged(t *testing.T) {
	legacy := "  old memo\n\nwith blank line "
	assert.Equal(t, legacy, ToEditableText(legacy))
}

func TestToDisplayLinesUntagged(t *testing.T) {
	lines := ToDisplayLines("first\n\n>second ")
	assert.Equal(t, []DisplayLine{{Text: "first"}, {Text: ">second", Quoted: true}}, lines)
	assert.Empty(t, ToDisplayLines(""))
}

func TestIsTagged(t *testing.T) {
	assert.True(t, IsTagged("<li>x</li>"))
	assert.True(t, IsTagged("x</li>"))
	assert.False(t, IsTagged("list <lite> text"))
}
