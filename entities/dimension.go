package entities

import (
	"fmt"

	"github.com/zooyer/zcad/core"
)

// DimKind 标注子类型（组码 70 低四位）
type DimKind int

const (
	DimLinear DimKind = iota
	DimAligned
	DimAngular
	DimDiameter
	DimRadius
	DimAngular3Point
	DimOrdinate
)

func (k DimKind) String() string {
	switch k {
	case DimLinear:
		return "linear"
	case DimAligned:
		return "aligned"
	case DimAngular:
		return "angular"
	case DimDiameter:
		return "diameter"
	case DimRadius:
		return "radius"
	case DimAngular3Point:
		return "angular3point"
	case DimOrdinate:
		return "ordinate"
	}
	return "unknown"
}

// Dimension 标注实体。子类型决定哪些定义点必须出现，
// 缺少必需点时整个实体解析失败（文档继续加载）。
type Dimension struct {
	BaseEntity
	Kind         DimKind
	Flags        int         // 组码 70 原始值
	BlockName    string      // 组码 2，关联的匿名块
	DefPoint     core.Point  // 组码 10/20/30
	TextMid      core.Point  // 组码 11/21/31
	P13          *core.Point // 组码 13/23/33
	P14          *core.Point // 组码 14/24/34
	P15          *core.Point // 组码 15/25/35
	P16          *core.Point // 组码 16/26/36
	Text         string      // 组码 1，文本覆盖
	Measurement  float64     // 组码 42
	Rotation     float64     // 组码 50，线性标注方向
	Oblique      float64     // 组码 52
	TextRotation float64     // 组码 53
	StyleName    string      // 组码 3
}

func init() {
	Register("DIMENSION", func() Entity { return NewDimension() })
}

func NewDimension() *Dimension {
	return &Dimension{BaseEntity: newBase("DIMENSION")}
}

func (d *Dimension) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if d.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 70:
			d.Flags = t.AsInt()
			d.Kind = DimKind(d.Flags & 0x0F)
		case 2:
			d.BlockName = t.AsString()
		case 10:
			d.DefPoint.X = t.AsFloat()
		case 20:
			d.DefPoint.Y = t.AsFloat()
		case 30:
			d.DefPoint.Z = t.AsFloat()
		case 11:
			d.TextMid.X = t.AsFloat()
		case 21:
			d.TextMid.Y = t.AsFloat()
		case 31:
			d.TextMid.Z = t.AsFloat()
		case 13:
			d.point13().X = t.AsFloat()
		case 23:
			d.point13().Y = t.AsFloat()
		case 33:
			d.point13().Z = t.AsFloat()
		case 14:
			d.point14().X = t.AsFloat()
		case 24:
			d.point14().Y = t.AsFloat()
		case 34:
			d.point14().Z = t.AsFloat()
		case 15:
			d.point15().X = t.AsFloat()
		case 25:
			d.point15().Y = t.AsFloat()
		case 35:
			d.point15().Z = t.AsFloat()
		case 16:
			d.point16().X = t.AsFloat()
		case 26:
			d.point16().Y = t.AsFloat()
		case 36:
			d.point16().Z = t.AsFloat()
		case 1:
			d.Text = t.AsString()
		case 42:
			d.Measurement = t.AsFloat()
		case 50:
			d.Rotation = t.AsFloat()
		case 52:
			d.Oblique = t.AsFloat()
		case 53:
			d.TextRotation = t.AsFloat()
		case 3:
			d.StyleName = t.AsString()
		}
	}
	if err := d.validate(); err != nil {
		return err
	}
	return s.Err()
}

// validate 校验子类型要求的定义点是否齐全
func (d *Dimension) validate() error {
	var missing []string
	need := func(p *core.Point, code string) {
		if p == nil {
			missing = append(missing, code)
		}
	}
	switch d.Kind {
	case DimLinear, DimAligned, DimOrdinate:
		need(d.P13, "13")
		need(d.P14, "14")
	case DimAngular:
		need(d.P13, "13")
		need(d.P14, "14")
		need(d.P15, "15")
		need(d.P16, "16")
	case DimAngular3Point:
		need(d.P13, "13")
		need(d.P14, "14")
		need(d.P15, "15")
	case DimDiameter, DimRadius:
		need(d.P15, "15")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s 标注缺少必需的定义点（组码 %v，句柄 %s）", d.Kind, missing, d.HandleID)
	}
	return nil
}

func (d *Dimension) point13() *core.Point {
	if d.P13 == nil {
		d.P13 = &core.Point{}
	}
	return d.P13
}

func (d *Dimension) point14() *core.Point {
	if d.P14 == nil {
		d.P14 = &core.Point{}
	}
	return d.P14
}

func (d *Dimension) point15() *core.Point {
	if d.P15 == nil {
		d.P15 = &core.Point{}
	}
	return d.P15
}

func (d *Dimension) point16() *core.Point {
	if d.P16 == nil {
		d.P16 = &core.Point{}
	}
	return d.P16
}

func (d *Dimension) Emit(w *core.TagWriter) {
	d.emitCommon(w)
	if d.BlockName != "" {
		w.Tag(2, d.BlockName)
	}
	w.Point3D(10, d.DefPoint)
	w.Point3D(11, d.TextMid)
	w.Int(70, d.Flags)
	if d.Text != "" {
		w.Tag(1, d.Text)
	}
	if d.StyleName != "" {
		w.Tag(3, d.StyleName)
	}
	if d.P13 != nil {
		w.Point3D(13, *d.P13)
	}
	if d.P14 != nil {
		w.Point3D(14, *d.P14)
	}
	if d.P15 != nil {
		w.Point3D(15, *d.P15)
	}
	if d.P16 != nil {
		w.Point3D(16, *d.P16)
	}
	if d.Measurement != 0 {
		w.Float(42, d.Measurement)
	}
	if d.Rotation != 0 {
		w.Float(50, d.Rotation)
	}
	if d.Oblique != 0 {
		w.Float(52, d.Oblique)
	}
	if d.TextRotation != 0 {
		w.Float(53, d.TextRotation)
	}
}

func (d *Dimension) BBox() (box core.BBox) {
	box = core.NewBBox(d.DefPoint)
	box.Extend(d.TextMid)
	for _, p := range []*core.Point{d.P13, d.P14, d.P15, d.P16} {
		if p != nil {
			box.Extend(*p)
		}
	}
	return
}
