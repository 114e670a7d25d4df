package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad/core"
)

func TestDimensionAligned(t *testing.T) {
	d := mustParse(t, `0
DIMENSION
5
40
2
*D1
70
33
10
5
20
2
30
0
11
5
21
3
31
0
13
0
23
0
33
0
14
10
24
0
34
0
42
10
1
<> mm
3
ISO-25
0
EOF
`).(*Dimension)
	assert.Equal(t, DimAligned, d.Kind)
	assert.Equal(t, 33, d.Flags)
	assert.Equal(t, "*D1", d.BlockName)
	require.NotNil(t, d.P13)
	require.NotNil(t, d.P14)
	assert.Equal(t, core.Point{X: 10}, *d.P14)
	assert.Equal(t, 10.0, d.Measurement)
	assert.Equal(t, "<> mm", d.Text)

	assert.Equal(t, d, reparse(t, d))
}

func TestDimensionKinds(t *testing.T) {
	tests := []struct {
		flags int
		want  DimKind
	}{
		{0, DimLinear},
		{1, DimAligned},
		{2, DimAngular},
		{3, DimDiameter},
		{4, DimRadius},
		{5, DimAngular3Point},
		{6, DimOrdinate},
		{32 + 4, DimRadius}, // 高位标志不影响子类型
	}
	for _, tt := range tests {
		d := NewDimension()
		d.Flags = tt.flags
		d.Kind = DimKind(tt.flags & 0x0F)
		assert.Equal(t, tt.want, d.Kind)
	}
}

func TestDimensionMissingRequiredPoint(t *testing.T) {
	// 半径标注缺少组码 15：实体解析失败，但不是致命错误
	s := core.NewStringScanner("0\nDIMENSION\n5\n41\n70\n4\n10\n0\n20\n0\n0\nEOF\n")
	require.True(t, s.Next())
	d := NewDimension()
	err := d.Parse(s, core.NewDiagnostics(nil))
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrMalformedRecord)
	// 扫描器本身没有出错，后续实体可以继续读
	assert.NoError(t, s.Err())
	assert.Equal(t, core.Tag{Code: 0, Value: "EOF"}, s.LastTag)
}

func TestSplineKnotValidation(t *testing.T) {
	// 3 阶 4 控制点需要 8 个节点，这里只给 6 个
	src := "0\nSPLINE\n5\n50\n70\n4\n71\n3\n" +
		"40\n0\n40\n0\n40\n0\n40\n1\n40\n1\n40\n1\n" +
		"10\n0\n20\n0\n10\n1\n20\n2\n10\n3\n20\n2\n10\n4\n20\n0\n0\nEOF\n"
	s := core.NewStringScanner(src)
	require.True(t, s.Next())
	sp := NewSpline()
	diag := core.NewDiagnostics(nil)
	require.NoError(t, sp.Parse(s, diag))

	assert.True(t, sp.KnotMismatch)
	assert.True(t, diag.HasWarnings())
	// 数据仍然保留
	assert.Len(t, sp.Knots, 6)
	assert.Len(t, sp.ControlPoints, 4)
	assert.True(t, sp.Rational())
}

func TestSplineRoundTrip(t *testing.T) {
	sp := mustParse(t, "0\nSPLINE\n70\n0\n71\n2\n"+
		"40\n0\n40\n0\n40\n0\n40\n1\n40\n1\n40\n1\n"+
		"10\n0\n20\n0\n10\n5\n20\n5\n10\n10\n20\n0\n0\nEOF\n").(*Spline)
	assert.False(t, sp.KnotMismatch)
	assert.Equal(t, sp, reparse(t, sp))
}

func TestLeaderParse(t *testing.T) {
	l := mustParse(t, "0\nLEADER\n3\nISO-25\n71\n1\n76\n3\n"+
		"10\n0\n20\n0\n30\n0\n10\n5\n20\n5\n30\n0\n10\n8\n20\n5\n30\n0\n0\nEOF\n").(*Leader)
	assert.Equal(t, "ISO-25", l.StyleName)
	require.Len(t, l.Vertices, 3)
	assert.Equal(t, core.Point{X: 8, Y: 5}, l.Vertices[2])

	assert.Equal(t, l, reparse(t, l))
}

func TestMLeaderParse(t *testing.T) {
	m := mustParse(t, `0
MULTILEADER
340
5E
172
2
41
8
42
4
300
CONTEXT_DATA{
302
LEADER{
303
LEADER_LINE{
10
0
20
0
30
0
10
10
20
10
30
0
304
说明\P文字
45
2.5
301
}
0
EOF
`).(*MLeader)
	assert.Equal(t, "5E", m.StyleHandle)
	assert.Equal(t, ContentMText, m.ContentType)
	require.Len(t, m.LeaderLines, 1)
	require.Len(t, m.LeaderLines[0], 2)
	assert.Equal(t, "说明\n文字", m.Text)
	assert.Equal(t, 8.0, m.DoglegLength)

	assert.Equal(t, m, reparse(t, m))
}
