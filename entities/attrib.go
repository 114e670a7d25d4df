package entities

import (
	"strings"

	"github.com/zooyer/zcad/core"
)

// 属性标志位（组码 70）
const (
	AttrInvisible = 1 << iota
	AttrConstant
	AttrVerify
	AttrPreset
)

// attrFields 是 ATTDEF 与 ATTRIB 共享的字段集合
type attrFields struct {
	Insert     core.Point  // 组码 10/20/30
	AlignPoint *core.Point // 组码 11/21/31
	Height     float64     // 组码 40
	Value      string      // 组码 1
	Tag        string      // 组码 2
	Flags      int         // 组码 70
	Rotation   float64     // 组码 50
	Width      float64     // 组码 41，宽度系数
	Style      string      // 组码 7
	HAlign     int         // 组码 72
	VAlign     int         // 组码 74
	Locked     bool        // 组码 280，位置锁定
}

func (a *attrFields) parseField(t core.Tag) bool {
	switch t.Code {
	case 10:
		a.Insert.X = t.AsFloat()
	case 20:
		a.Insert.Y = t.AsFloat()
	case 30:
		a.Insert.Z = t.AsFloat()
	case 11:
		a.ensureAlign().X = t.AsFloat()
	case 21:
		a.ensureAlign().Y = t.AsFloat()
	case 31:
		a.ensureAlign().Z = t.AsFloat()
	case 40:
		a.Height = t.AsFloat()
	case 1:
		if a.Value == "" {
			a.Value = t.Value
		} else {
			a.Value += "\n" + t.Value
		}
	case 2:
		a.Tag = t.AsString()
	case 70:
		a.Flags = t.AsInt()
	case 50:
		a.Rotation = t.AsFloat()
	case 41:
		a.Width = t.AsFloat()
	case 7:
		a.Style = t.AsString()
	case 72:
		a.HAlign = t.AsInt()
	case 74:
		a.VAlign = t.AsInt()
	case 280:
		a.Locked = t.AsInt() != 0
	default:
		return false
	}
	return true
}

func (a *attrFields) ensureAlign() *core.Point {
	if a.AlignPoint == nil {
		a.AlignPoint = &core.Point{}
	}
	return a.AlignPoint
}

func (a *attrFields) emitFields(w *core.TagWriter) {
	w.Point3D(10, a.Insert)
	w.Float(40, a.Height)
	for _, line := range strings.Split(a.Value, "\n") {
		w.Tag(1, line)
	}
	w.Tag(2, a.Tag)
	w.Int(70, a.Flags)
	if a.Rotation != 0 {
		w.Float(50, a.Rotation)
	}
	if a.Width != 0 {
		w.Float(41, a.Width)
	}
	if a.Style != "" {
		w.Tag(7, a.Style)
	}
	if a.HAlign != 0 {
		w.Int(72, a.HAlign)
	}
	if a.AlignPoint != nil {
		w.Point3D(11, *a.AlignPoint)
	}
	if a.VAlign != 0 {
		w.Int(74, a.VAlign)
	}
	if a.Locked {
		w.Int(280, 1)
	}
}

// Invisible 属性是否不可见
func (a *attrFields) Invisible() bool { return a.Flags&AttrInvisible != 0 }

// Constant 属性是否为常量（插入时不可编辑）
func (a *attrFields) Constant() bool { return a.Flags&AttrConstant != 0 }

// Attrib 块引用携带的属性实例
type Attrib struct {
	BaseEntity
	attrFields
}

func init() {
	Register("ATTRIB", func() Entity { return NewAttrib() })
	Register("ATTDEF", func() Entity { return NewAttDef() })
}

func NewAttrib() *Attrib {
	return &Attrib{BaseEntity: newBase("ATTRIB")}
}

func (a *Attrib) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if a.parseCommon(t) {
			continue
		}
		a.parseField(t)
	}
	return s.Err()
}

func (a *Attrib) Emit(w *core.TagWriter) {
	a.emitCommon(w)
	a.emitFields(w)
}

func (a *Attrib) BBox() core.BBox {
	return core.NewBBox(a.Insert)
}

// AttDef 块定义中的属性模板，Value 为默认值
type AttDef struct {
	BaseEntity
	attrFields
	Prompt string // 组码 3
}

func NewAttDef() *AttDef {
	return &AttDef{BaseEntity: newBase("ATTDEF")}
}

func (a *AttDef) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if a.parseCommon(t) {
			continue
		}
		if t.Code == 3 {
			a.Prompt = t.AsString()
			continue
		}
		a.parseField(t)
	}
	return s.Err()
}

func (a *AttDef) Emit(w *core.TagWriter) {
	a.emitCommon(w)
	if a.Prompt != "" {
		w.Tag(3, a.Prompt)
	}
	a.emitFields(w)
}

func (a *AttDef) BBox() core.BBox {
	return core.NewBBox(a.Insert)
}

// Instantiate 按模板生成一份属性实例，用于回填默认值
func (a *AttDef) Instantiate() *Attrib {
	attrib := NewAttrib()
	attrib.LayerName = a.LayerName
	attrib.Color = a.Color
	attrib.Linetype = a.Linetype
	attrib.attrFields = a.attrFields
	if a.AlignPoint != nil {
		align := *a.AlignPoint
		attrib.AlignPoint = &align
	}
	return attrib
}
