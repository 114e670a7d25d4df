package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad/core"
)

const imageHeader = `0
IMAGE
5
60
10
0
20
0
30
0
11
0.01
21
0
31
0
12
0
22
0.01
32
0
13
640
23
480
340
61
360
62
70
7
281
60
282
40
283
10
`

func TestImageRectClip(t *testing.T) {
	img := mustParse(t, imageHeader+`280
1
71
1
91
2
14
100
24
400
14
500
24
50
0
EOF
`).(*RasterImage)
	assert.Equal(t, "61", img.DefHandle)
	assert.Equal(t, "62", img.ReactorHandle)
	assert.Equal(t, 60, img.Brightness)
	assert.True(t, img.ClipEnabled)

	clip := img.Clip
	require.NotNil(t, clip)
	assert.True(t, clip.Rect)
	// 对角点归一化：Min 取小值，Max 取大值
	assert.Equal(t, core.Point{X: 100, Y: 50}, clip.Min)
	assert.Equal(t, core.Point{X: 500, Y: 400}, clip.Max)

	assert.Equal(t, img, reparse(t, img))
}

func TestImageRectClipWithoutVertexCount(t *testing.T) {
	// 组码 91 缺失时按点对数量归类：恰好两对即矩形边界
	img := mustParse(t, imageHeader+`280
1
71
1
14
100
24
400
14
500
24
50
0
EOF
`).(*RasterImage)
	clip := img.Clip
	require.NotNil(t, clip, "缺少顶点计数的矩形边界也要识别")
	assert.True(t, clip.Rect)
	assert.Equal(t, core.Point{X: 100, Y: 50}, clip.Min)
	assert.Equal(t, core.Point{X: 500, Y: 400}, clip.Max)

	assert.Equal(t, img, reparse(t, img))
}

func TestImagePolygonClipWinding(t *testing.T) {
	img := mustParse(t, imageHeader+`280
1
71
2
91
3
14
0
24
0
14
100
24
0
14
0
24
100
0
EOF
`).(*RasterImage)
	clip := img.Clip
	require.NotNil(t, clip)
	assert.False(t, clip.Rect)
	require.Len(t, clip.Vertices, 3)
	assert.True(t, clip.CCW)

	assert.Equal(t, img, reparse(t, img))
}

func TestImageDisabledClipKeepsGeometry(t *testing.T) {
	// 裁剪停用时边界数据保留，启用状态独立记录
	img := mustParse(t, imageHeader+`280
0
71
1
91
2
14
10
24
10
14
90
24
90
0
EOF
`).(*RasterImage)
	assert.False(t, img.ClipEnabled)
	require.NotNil(t, img.Clip, "停用裁剪不应丢弃边界")
	assert.Equal(t, core.Point{X: 10, Y: 10}, img.Clip.Min)

	got := reparse(t, img).(*RasterImage)
	assert.False(t, got.ClipEnabled)
	require.NotNil(t, got.Clip)
	assert.Equal(t, img, got)
}

func TestImageWithoutClip(t *testing.T) {
	img := mustParse(t, imageHeader+"280\n0\n0\nEOF\n").(*RasterImage)
	assert.Nil(t, img.Clip)
	assert.Equal(t, core.Vector{X: 640, Y: 480}, img.Size)

	assert.Equal(t, img, reparse(t, img))
}

func TestWipeoutParse(t *testing.T) {
	wp := mustParse(t, `0
WIPEOUT
10
0
20
0
30
0
11
1
21
0
31
0
12
0
22
1
32
0
13
1
23
1
70
7
280
1
281
50
282
50
283
0
71
2
91
4
14
0
24
0
14
1
24
0
14
1
24
1
14
0
24
1
0
EOF
`).(*Wipeout)
	require.NotNil(t, wp.Clip)
	assert.Len(t, wp.Clip.Vertices, 4)
	assert.True(t, wp.Clip.CCW)

	assert.Equal(t, wp, reparse(t, wp))
}
