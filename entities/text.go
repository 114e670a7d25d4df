package entities

import (
	"strings"

	"github.com/zooyer/zcad/core"
)

// Text 单行文字实体。多个组码 1 连续出现时按换行拼接。
type Text struct {
	BaseEntity
	Insert     core.Point  // 组码 10/20/30
	AlignPoint *core.Point // 组码 11/21/31，对齐点（可选）
	Height     float64     // 组码 40
	Content    string      // 组码 1
	Rotation   float64     // 组码 50，度
	Style      string      // 组码 7
	HAlign     int         // 组码 72
	VAlign     int         // 组码 73
}

func init() {
	Register("TEXT", func() Entity { return NewText() })
}

func NewText() *Text {
	return &Text{BaseEntity: newBase("TEXT")}
}

func (t *Text) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		tag := s.LastTag
		if tag.Code == 0 {
			return nil
		}
		if t.parseCommon(tag) {
			continue
		}
		switch tag.Code {
		case 10:
			t.Insert.X = tag.AsFloat()
		case 20:
			t.Insert.Y = tag.AsFloat()
		case 30:
			t.Insert.Z = tag.AsFloat()
		case 11:
			t.ensureAlign().X = tag.AsFloat()
		case 21:
			t.ensureAlign().Y = tag.AsFloat()
		case 31:
			t.ensureAlign().Z = tag.AsFloat()
		case 40:
			t.Height = tag.AsFloat()
		case 1:
			if t.Content == "" {
				t.Content = tag.Value
			} else {
				t.Content += "\n" + tag.Value
			}
		case 50:
			t.Rotation = tag.AsFloat()
		case 7:
			t.Style = tag.AsString()
		case 72:
			t.HAlign = tag.AsInt()
		case 73:
			t.VAlign = tag.AsInt()
		}
	}
	return s.Err()
}

func (t *Text) ensureAlign() *core.Point {
	if t.AlignPoint == nil {
		t.AlignPoint = &core.Point{}
	}
	return t.AlignPoint
}

func (t *Text) Emit(w *core.TagWriter) {
	t.emitCommon(w)
	w.Point3D(10, t.Insert)
	if t.AlignPoint != nil {
		w.Point3D(11, *t.AlignPoint)
	}
	w.Float(40, t.Height)
	// 内容含换行时拆成多个组码 1，避免破坏行结构
	for _, line := range strings.Split(t.Content, "\n") {
		w.Tag(1, line)
	}
	if t.Rotation != 0 {
		w.Float(50, t.Rotation)
	}
	if t.Style != "" {
		w.Tag(7, t.Style)
	}
	if t.HAlign != 0 {
		w.Int(72, t.HAlign)
	}
	if t.VAlign != 0 {
		w.Int(73, t.VAlign)
	}
}

func (t *Text) BBox() (box core.BBox) {
	box = core.NewBBox(t.Insert)
	if t.AlignPoint != nil {
		box.Extend(*t.AlignPoint)
	}
	box.Extend(core.Point{X: t.Insert.X, Y: t.Insert.Y + t.Height, Z: t.Insert.Z})
	return
}
