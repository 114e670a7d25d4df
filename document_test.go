package zcad_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

const minimalDoc = `0
SECTION
2
TABLES
0
TABLE
2
LAYER
0
LAYER
2
墙体
70
0
62
1
6
Continuous
0
ENDTAB
0
TABLE
2
DIMSTYLE
0
DIMSTYLE
2
ISO-25
40
1
271
2
0
ENDTAB
0
ENDSEC
0
SECTION
2
BLOCKS
0
BLOCK
5
20
2
Door
10
0
20
0
30
0
0
LINE
5
21
8
墙体
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
0
ATTDEF
5
22
2
NUM
1
默认编号
40
2.5
0
ENDBLK
0
ENDSEC
0
SECTION
2
ENTITIES
0
INSERT
5
30
2
DOOR
10
5
20
5
30
0
0
LINE
10
0
20
0
30
0
11
100
21
0
31
0
0
CIRCLE
5
31
10
50
20
50
30
0
40
10
0
ENDSEC
0
EOF
`

func TestLoadMinimalDocument(t *testing.T) {
	doc, err := zcad.Load(strings.NewReader(minimalDoc))
	require.NoError(t, err)
	require.NotNil(t, doc)

	// 图层：默认 0 层 + 表里声明的墙体
	layers := doc.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, "0", layers[0].Name)
	assert.Equal(t, "墙体", layers[1].Name)
	assert.Equal(t, 1, layers[1].Color)

	style, ok := doc.DimStyle("iso-25")
	require.True(t, ok)
	assert.Equal(t, 2, style.Precision)

	// 块名统一大写，引用按名连接
	block, ok := doc.Block("door")
	require.True(t, ok)
	assert.Equal(t, "DOOR", block.Name)
	require.Len(t, block.Entities, 1)
	require.Len(t, block.AttDefs, 1)

	assert.Len(t, doc.Entities(), 3)
}

func TestLookupByHandle(t *testing.T) {
	doc, err := zcad.Load(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	// 块内实体也按句柄登记
	obj, ok := doc.LookupByHandle("21")
	require.True(t, ok)
	line, ok := obj.(*entities.Line)
	require.True(t, ok)
	assert.Equal(t, "墙体", line.Layer())

	_, ok = doc.LookupByHandle("FFFF")
	assert.False(t, ok)
}

func TestSyntheticHandles(t *testing.T) {
	doc, err := zcad.Load(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	// 没有组码 5 的 LINE 得到合成句柄，且可反查
	var line *entities.Line
	for e := range doc.EntitiesByKind("LINE") {
		line = e.(*entities.Line)
	}
	require.NotNil(t, line)
	assert.True(t, strings.HasPrefix(line.Handle(), "*"))

	obj, ok := doc.LookupByHandle(line.Handle())
	require.True(t, ok)
	assert.Same(t, line, obj)
}

func TestAttributeDefaultBackfill(t *testing.T) {
	doc, err := zcad.Load(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	var ins *entities.Insert
	for e := range doc.EntitiesByKind("INSERT") {
		ins = e.(*entities.Insert)
	}
	require.NotNil(t, ins)
	// 引用没带属性，解析引用时从块定义的模板回填默认值
	assert.Equal(t, "默认编号", ins.Attr("NUM"))

	// 再跑一遍解析不会重复回填
	require.NoError(t, doc.ResolveReferences())
	assert.Len(t, ins.Attribs, 1)
}

func TestEntitiesByKindRestartable(t *testing.T) {
	doc, err := zcad.Load(strings.NewReader(minimalDoc))
	require.NoError(t, err)

	seq := doc.EntitiesByKind("LINE")
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 1, first)
	assert.Equal(t, first, second)

	// 提前退出不影响下一次遍历
	for range seq {
		break
	}
	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, first, count)
}

func TestDuplicateHandleFatal(t *testing.T) {
	src := `0
SECTION
2
ENTITIES
0
LINE
5
AB
10
0
20
0
11
1
21
1
0
CIRCLE
5
AB
10
0
20
0
40
1
0
ENDSEC
0
EOF
`
	doc, err := zcad.Load(strings.NewReader(src))
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, core.ErrDuplicateHandle)
}

func TestUnresolvedBlockReference(t *testing.T) {
	src := `0
SECTION
2
ENTITIES
0
INSERT
2
MISSING-A
10
0
20
0
0
INSERT
2
MISSING-B
10
5
20
5
0
ENDSEC
0
EOF
`
	doc, err := zcad.Load(strings.NewReader(src))
	require.NotNil(t, doc, "悬空引用不应丢弃文档")
	require.Error(t, err)

	var unresolved *core.UnresolvedBlockError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"MISSING-A", "MISSING-B"}, unresolved.Names)
	assert.Len(t, doc.Entities(), 2)
}

func TestUnsupportedEntitySkipped(t *testing.T) {
	src := `0
SECTION
2
ENTITIES
0
ACAD_PROXY_ENTITY
90
498
10
0
20
0
0
LINE
10
0
20
0
11
1
21
1
0
ENDSEC
0
EOF
`
	var stages []string
	doc, err := zcad.LoadWith(strings.NewReader(src), func(stage string, severity core.Severity, message string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)
	assert.Len(t, doc.Entities(), 1, "未知实体整体跳过，其余继续")
	assert.True(t, doc.HasWarnings())
	assert.Contains(t, stages, "entities")
}

func TestEntityLevelFailureKeepsDocument(t *testing.T) {
	// 半径标注缺少必需点：该实体丢弃，文档与诊断保留
	src := `0
SECTION
2
ENTITIES
0
DIMENSION
5
40
70
4
10
0
20
0
0
LINE
10
0
20
0
11
1
21
1
0
ENDSEC
0
EOF
`
	doc, err := zcad.Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, doc.Entities(), 1)
	assert.True(t, doc.HasWarnings())
}

func TestObjectsSection(t *testing.T) {
	src := `0
SECTION
2
OBJECTS
0
DICTIONARY
5
C
330
0
3
ACAD_IMAGE_DICT
350
D
3
ACAD_IMAGE_VARS
350
E
0
DICTIONARY
5
D
330
C
3
风景图
350
61
0
IMAGEDEF
5
61
1
C:\IMAGES\风景.png
10
640
20
480
11
0.01
21
0.01
280
1
0
RASTERVARIABLES
5
E
90
0
70
1
71
1
72
3
0
ENDSEC
0
EOF
`
	doc, err := zcad.Load(strings.NewReader(src))
	require.NoError(t, err)

	dict, ok := doc.Dictionary(zcad.ImageDictName)
	require.True(t, ok)
	handle, ok := dict.Get("风景图")
	require.True(t, ok)

	def, ok := doc.ImageDef(handle)
	require.True(t, ok)
	assert.Equal(t, `C:\IMAGES\风景.png`, def.FilePath)
	assert.Equal(t, 640.0, def.SizePixels.X)

	vars := doc.RasterVariables()
	require.NotNil(t, vars)
	assert.Equal(t, 3, vars.Units)

	// 对象也参与句柄索引
	obj, ok := doc.LookupByHandle("61")
	require.True(t, ok)
	assert.Same(t, def, obj)
}

func TestMalformedRecordFatal(t *testing.T) {
	doc, err := zcad.Load(strings.NewReader("0\nSECTION\n2\nENTITIES\n0\nLINE\n10\n"))
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, core.ErrMalformedRecord)
}
