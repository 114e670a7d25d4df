package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/entities"
)

func TestDimText(t *testing.T) {
	doc := zcad.NewDocument(nil)
	doc.AddDimStyle(&zcad.DimStyle{Name: "ISO-25", Scale: 10, Precision: 1})

	dim := entities.NewDimension()
	dim.StyleName = "ISO-25"
	dim.Measurement = 1.23

	assert.Equal(t, "12.3", DimText(doc, dim))

	dim.Text = "约 <> mm"
	assert.Equal(t, "约 12.3 mm", DimText(doc, dim))

	// 无样式时按默认两位小数
	dim2 := entities.NewDimension()
	dim2.Measurement = 5
	assert.Equal(t, "5.00", DimText(doc, dim2))
}

func TestAttrs(t *testing.T) {
	ins := entities.NewInsert()
	visible := entities.NewAttrib()
	visible.Tag = "NUM"
	visible.Value = "A-01"
	hidden := entities.NewAttrib()
	hidden.Tag = "COST"
	hidden.Value = "秘密"
	hidden.Flags = entities.AttrInvisible
	ins.Attribs = []*entities.Attrib{visible, hidden}

	all := Attrs(ins)
	require.Len(t, all, 2)
	assert.Equal(t, "A-01", all["NUM"])

	shown := VisibleAttrs(ins)
	require.Len(t, shown, 1)
	_, ok := shown["COST"]
	assert.False(t, ok)
}
