package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagWriterBasic(t *testing.T) {
	var buf bytes.Buffer
	w := NewTagWriter(&buf)
	w.Tag(0, "LINE")
	w.Int(62, 256)
	w.Float(10, 1.25)
	require.NoError(t, w.Flush())

	assert.Equal(t, "0\nLINE\n62\n256\n10\n1.25\n", buf.String())
}

func TestTagWriterFloatRoundTrip(t *testing.T) {
	// 最短可还原格式：写出再解析必须逐位一致
	values := []float64{0, 1, -1.5, 0.1, 1e-12, 123456.789012345, 3.141592653589793}
	var buf bytes.Buffer
	w := NewTagWriter(&buf)
	for _, v := range values {
		w.Float(40, v)
	}
	require.NoError(t, w.Flush())

	s := NewStringScanner(buf.String())
	for _, v := range values {
		require.True(t, s.Next())
		assert.Equal(t, v, s.LastTag.AsFloat())
	}
}

func TestTagWriterPoints(t *testing.T) {
	var buf bytes.Buffer
	w := NewTagWriter(&buf)
	w.Point2D(14, 3, 4)
	w.Point3D(10, Point{X: 1, Y: 2, Z: 3})
	require.NoError(t, w.Flush())

	assert.Equal(t, "14\n3\n24\n4\n10\n1\n20\n2\n30\n3\n", buf.String())
}
