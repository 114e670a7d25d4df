package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestScannerNext(t *testing.T) {
	s := NewStringScanner("0\nLINE\n10\n1.5\n8\n墙体\n")

	require.True(t, s.Next())
	assert.Equal(t, Tag{Code: 0, Value: "LINE"}, s.LastTag)

	require.True(t, s.Next())
	assert.Equal(t, 10, s.LastTag.Code)
	assert.Equal(t, 1.5, s.LastTag.AsFloat())

	require.True(t, s.Next())
	assert.Equal(t, "墙体", s.LastTag.AsString())

	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
}

func TestScannerCRLFAndSpaces(t *testing.T) {
	s := NewStringScanner(" 0\r\nTEXT\r\n1\r\n  两个前导空格\r\n")

	require.True(t, s.Next())
	assert.Equal(t, 0, s.LastTag.Code)
	assert.Equal(t, "TEXT", s.LastTag.Value)

	require.True(t, s.Next())
	// 值行保留前导空格，仅去掉回车
	assert.Equal(t, "  两个前导空格", s.LastTag.Value)
}

func TestScannerSkipsBlankCodeLines(t *testing.T) {
	s := NewStringScanner("\n\n0\nEOF\n")
	require.True(t, s.Next())
	assert.Equal(t, Tag{Code: 0, Value: "EOF"}, s.LastTag)
}

func TestScannerMalformedCode(t *testing.T) {
	s := NewStringScanner("abc\nLINE\n")
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), ErrMalformedRecord)
}

func TestScannerMissingValueLine(t *testing.T) {
	s := NewStringScanner("0\nLINE\n10\n1.5")
	require.True(t, s.Next())
	require.True(t, s.Next()) // 最后一行没有换行符也要能读到
	assert.Equal(t, Tag{Code: 10, Value: "1.5"}, s.LastTag)

	s = NewStringScanner("0\nLINE\n10\n")
	require.True(t, s.Next())
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), ErrMalformedRecord)
}

func TestScannerSentinelAtEOF(t *testing.T) {
	s := NewStringScanner("0\nLINE\n")
	require.True(t, s.Next())
	require.False(t, s.Next())
	// 流耗尽后 LastTag 不应残留旧标签
	assert.Equal(t, -1, s.LastTag.Code)
}

func TestScannerUTF8BOM(t *testing.T) {
	s := NewScanner(strings.NewReader("\xEF\xBB\xBF0\nEOF\n"))
	require.True(t, s.Next())
	assert.Equal(t, "EOF", s.LastTag.Value)
}

func TestScannerGB18030Fallback(t *testing.T) {
	encoded, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte("8\n图层一\n"))
	require.NoError(t, err)

	s := NewScanner(strings.NewReader(string(encoded)))
	require.True(t, s.Next())
	assert.Equal(t, 8, s.LastTag.Code)
	assert.Equal(t, "图层一", s.LastTag.AsString())
}

func TestScannerReaderError(t *testing.T) {
	s := NewScanner(&failingReader{})
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), ErrEncoding)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestTagHelpers(t *testing.T) {
	tag := Tag{Code: 0, Value: " line "}
	assert.True(t, tag.IsType("LINE"))
	assert.False(t, Tag{Code: 5, Value: "LINE"}.IsType("LINE"))

	assert.Equal(t, 42, Tag{Code: 70, Value: " 42 "}.AsInt())
	_, err := Tag{Code: 40, Value: "abc"}.Float()
	assert.Error(t, err)
}

func TestBBoxExtendMerge(t *testing.T) {
	box := NewBBox(Point{X: 1, Y: 2, Z: 3})
	box.Extend(Point{X: -1, Y: 5, Z: 0})
	assert.Equal(t, Point{X: -1, Y: 2, Z: 0}, box.Min)
	assert.Equal(t, Point{X: 1, Y: 5, Z: 3}, box.Max)

	other := NewBBox(Point{X: 10, Y: 10, Z: 10})
	box.Merge(other)
	assert.Equal(t, Point{X: 10, Y: 10, Z: 10}, box.Max)
}
