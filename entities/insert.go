package entities

import (
	"strings"

	"github.com/zooyer/zcad/core"
)

// Insert 块引用实体。当组码 66 置位时，其后跟随若干 ATTRIB
// 实体并以 SEQEND 收尾，Parse 一并消费。
type Insert struct {
	BaseEntity
	BlockName string     // 组码 2
	Insertion core.Point // 组码 10/20/30
	Scale     core.Point // 组码 41/42/43，默认各轴为 1
	Rotation  float64    // 组码 50，度
	Cols      int        // 组码 70
	Rows      int        // 组码 71
	ColSpace  float64    // 组码 44
	RowSpace  float64    // 组码 45
	Attribs   []*Attrib
}

func init() {
	Register("INSERT", func() Entity { return NewInsert() })
}

func NewInsert() *Insert {
	return &Insert{
		BaseEntity: newBase("INSERT"),
		Scale:      core.Point{X: 1, Y: 1, Z: 1},
		Cols:       1,
		Rows:       1,
	}
}

func (i *Insert) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	var hasAttribs bool
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if i.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 2:
			i.BlockName = strings.ToUpper(t.AsString())
		case 10:
			i.Insertion.X = t.AsFloat()
		case 20:
			i.Insertion.Y = t.AsFloat()
		case 30:
			i.Insertion.Z = t.AsFloat()
		case 41:
			i.Scale.X = t.AsFloat()
		case 42:
			i.Scale.Y = t.AsFloat()
		case 43:
			i.Scale.Z = t.AsFloat()
		case 50:
			i.Rotation = t.AsFloat()
		case 70:
			i.Cols = t.AsInt()
		case 71:
			i.Rows = t.AsInt()
		case 44:
			i.ColSpace = t.AsFloat()
		case 45:
			i.RowSpace = t.AsFloat()
		case 66:
			hasAttribs = t.AsInt() != 0
		}
	}
	if !hasAttribs {
		return s.Err()
	}

	// 消费附属的 ATTRIB 序列，直到 SEQEND
	for s.Err() == nil {
		t := s.LastTag
		if t.Code != 0 {
			break
		}
		switch strings.ToUpper(t.AsString()) {
		case "ATTRIB":
			attrib := NewAttrib()
			if err := attrib.Parse(s, diag); err != nil {
				return err
			}
			i.Attribs = append(i.Attribs, attrib)
			continue
		case "SEQEND":
			skipBody(s)
		}
		break
	}
	return s.Err()
}

// Attr 按标签名查找属性值，未找到返回空串
func (i *Insert) Attr(tag string) string {
	for _, a := range i.Attribs {
		if strings.EqualFold(a.Tag, tag) {
			return a.Value
		}
	}
	return ""
}

// HasAttr 判断是否存在指定标签的属性
func (i *Insert) HasAttr(tag string) bool {
	for _, a := range i.Attribs {
		if strings.EqualFold(a.Tag, tag) {
			return true
		}
	}
	return false
}

func (i *Insert) Emit(w *core.TagWriter) {
	i.emitCommon(w)
	if len(i.Attribs) > 0 {
		w.Int(66, 1)
	}
	w.Tag(2, i.BlockName)
	w.Point3D(10, i.Insertion)
	if i.Scale != (core.Point{X: 1, Y: 1, Z: 1}) {
		w.Float(41, i.Scale.X)
		w.Float(42, i.Scale.Y)
		w.Float(43, i.Scale.Z)
	}
	if i.Rotation != 0 {
		w.Float(50, i.Rotation)
	}
	if i.Cols != 1 || i.Rows != 1 {
		w.Int(70, i.Cols)
		w.Int(71, i.Rows)
		w.Float(44, i.ColSpace)
		w.Float(45, i.RowSpace)
	}
	for _, a := range i.Attribs {
		a.Emit(w)
	}
	if len(i.Attribs) > 0 {
		w.Tag(0, "SEQEND")
	}
}

func (i *Insert) BBox() core.BBox {
	// 不展开块内容时仅能给出插入点，全局包围盒由上层结合块定义计算
	return core.NewBBox(i.Insertion)
}
