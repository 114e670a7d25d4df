package core

import (
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对（组码 + 值）
type Tag struct {
	Code  int
	Value string
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return f
}

// Float 严格解析 float64，解析失败返回错误
func (t Tag) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	i, _ := strconv.Atoi(strings.TrimSpace(t.Value))
	return i
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}

// IsType 判断是否为类型起始标签（组码 0 且值相同，忽略大小写）
func (t Tag) IsType(name string) bool {
	return t.Code == 0 && strings.EqualFold(strings.TrimSpace(t.Value), name)
}

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

// Vector 代表平面方向向量
type Vector struct {
	X, Y float64
}

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
}

// NewBBox 以单点初始化包围盒
func NewBBox(p Point) BBox {
	return BBox{Min: p, Max: p}
}

// Merge 合并另一个包围盒
func (b *BBox) Merge(o BBox) {
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Extend 扩展包围盒以包含指定点
func (b *BBox) Extend(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
