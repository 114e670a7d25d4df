package utils

import (
	"strconv"
	"strings"

	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/entities"
)

// DimText 返回标注的显示文本。存在覆盖文本时以 <> 占位实测值，
// 否则按标注样式的比例与小数位格式化实测值。
func DimText(doc *zcad.Document, dim *entities.Dimension) string {
	scale, precision := 1.0, 2
	if style, ok := doc.DimStyle(dim.StyleName); ok {
		if style.Scale != 0 {
			scale = style.Scale
		}
		precision = style.Precision
	}
	value := strconv.FormatFloat(dim.Measurement*scale, 'f', precision, 64)
	if dim.Text != "" {
		return strings.ReplaceAll(dim.Text, "<>", value)
	}
	return value
}
