package entities

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad/core"
)

// mustParse 从片段解析单个实体，片段以类型标签开头
func mustParse(t *testing.T, src string) Entity {
	t.Helper()
	s := core.NewStringScanner(src)
	require.True(t, s.Next())
	e := CreateEntity(s.LastTag.AsString())
	require.NotNil(t, e, "实体类型未注册: %s", s.LastTag.Value)
	require.NoError(t, e.Parse(s, core.NewDiagnostics(nil)))
	return e
}

// reparse 写出再读回，验证实体编解码互逆
func reparse(t *testing.T, e Entity) Entity {
	t.Helper()
	var buf bytes.Buffer
	w := core.NewTagWriter(&buf)
	e.Emit(w)
	w.Tag(0, "EOF")
	require.NoError(t, w.Flush())
	return mustParse(t, buf.String())
}

func TestLineParse(t *testing.T) {
	e := mustParse(t, `0
LINE
5
2A
8
墙体
10
1
20
2
30
3
11
4
21
5
31
6
0
EOF
`)
	line, ok := e.(*Line)
	require.True(t, ok)
	assert.Equal(t, "2A", line.Handle())
	assert.Equal(t, "墙体", line.Layer())
	assert.Equal(t, core.Point{X: 1, Y: 2, Z: 3}, line.Start)
	assert.Equal(t, core.Point{X: 4, Y: 5, Z: 6}, line.End)

	assert.Equal(t, line, reparse(t, line))
}

func TestCircleAndArc(t *testing.T) {
	c := mustParse(t, "0\nCIRCLE\n10\n5\n20\n5\n40\n2\n0\nEOF\n").(*Circle)
	assert.Equal(t, 2.0, c.Radius)
	box := c.BBox()
	assert.Equal(t, core.Point{X: 3, Y: 3}, box.Min)
	assert.Equal(t, core.Point{X: 7, Y: 7}, box.Max)

	a := mustParse(t, "0\nARC\n10\n0\n20\n0\n40\n1\n50\n0\n51\n90\n0\nEOF\n").(*Arc)
	start := a.StartPoint()
	assert.InDelta(t, 1, start.X, 1e-12)
	assert.InDelta(t, 0, start.Y, 1e-12)
	end := a.EndPoint()
	assert.InDelta(t, 0, end.X, 1e-12)
	assert.InDelta(t, 1, end.Y, 1e-12)

	assert.Equal(t, a, reparse(t, a))
}

func TestEllipseParse(t *testing.T) {
	e := mustParse(t, "0\nELLIPSE\n10\n0\n20\n0\n11\n2\n21\n0\n40\n0.5\n41\n0\n42\n6.283185307179586\n0\nEOF\n").(*Ellipse)
	assert.True(t, e.IsFull())
	assert.Equal(t, 0.5, e.Ratio)

	p := e.PointAt(0)
	assert.InDelta(t, 2, p.X, 1e-12)
	assert.Equal(t, e, reparse(t, e))
}

func TestPolylineBulge(t *testing.T) {
	p := mustParse(t, `0
LWPOLYLINE
90
3
70
1
10
0
20
0
42
1
10
10
20
0
10
10
20
10
0
EOF
`).(*Polyline)
	require.Len(t, p.Vertices, 3)
	assert.True(t, p.Closed)
	assert.Equal(t, 1.0, p.Vertices[0].Bulge)

	// 凸度 1 为半圆，包围盒要把弧顶包进来
	box := p.BBox()
	assert.InDelta(t, -5, box.Min.Y, 1e-9)

	assert.Equal(t, p, reparse(t, p))
}

func TestTextMultipleContentTags(t *testing.T) {
	text := mustParse(t, "0\nTEXT\n10\n0\n20\n0\n40\n2.5\n1\n第一行\n1\n第二行\n0\nEOF\n").(*Text)
	assert.Equal(t, "第一行\n第二行", text.Content)

	// 含换行的内容写出时拆分，读回后一致
	assert.Equal(t, text, reparse(t, text))
}

func TestInsertWithAttribs(t *testing.T) {
	e := mustParse(t, `0
INSERT
5
30
66
1
2
door
10
100
20
200
30
0
41
2
42
2
43
1
50
90
0
ATTRIB
5
31
10
100
20
195
30
0
40
2.5
1
D-01
2
NUM
70
0
0
SEQEND
0
EOF
`)
	ins, ok := e.(*Insert)
	require.True(t, ok)
	assert.Equal(t, "DOOR", ins.BlockName)
	assert.Equal(t, 90.0, ins.Rotation)
	require.Len(t, ins.Attribs, 1)
	assert.Equal(t, "D-01", ins.Attr("num"))
	assert.True(t, ins.HasAttr("NUM"))
	assert.False(t, ins.HasAttr("TYPE"))

	assert.Equal(t, ins, reparse(t, ins))
}

func TestAttDefInstantiate(t *testing.T) {
	def := mustParse(t, "0\nATTDEF\n8\n标注\n3\n输入编号\n2\nNUM\n1\n默认值\n40\n2.5\n70\n1\n0\nEOF\n").(*AttDef)
	assert.Equal(t, "输入编号", def.Prompt)
	assert.True(t, def.Invisible())

	attrib := def.Instantiate()
	assert.Equal(t, "ATTRIB", attrib.Type())
	assert.Equal(t, "NUM", attrib.Tag)
	assert.Equal(t, "默认值", attrib.Value)
	assert.Equal(t, "标注", attrib.Layer())
}

func TestCreateEntityUnknown(t *testing.T) {
	assert.Nil(t, CreateEntity("SOLID3D"))
	assert.NotNil(t, CreateEntity(" line "))
}

func TestFace3DTriangle(t *testing.T) {
	f := mustParse(t, "0\n3DFACE\n10\n0\n20\n0\n30\n0\n11\n1\n21\n0\n31\n0\n12\n1\n22\n1\n32\n0\n13\n1\n23\n1\n33\n0\n70\n8\n0\nEOF\n").(*Face3D)
	assert.True(t, f.IsTriangle())
	assert.False(t, f.EdgeVisible(3))
	assert.True(t, f.EdgeVisible(0))

	assert.Equal(t, f, reparse(t, f))
}
