package entities

import (
	"math"

	"github.com/zooyer/zcad/core"
)

// Ellipse 椭圆/椭圆弧实体。长轴以相对圆心的端点向量表示，
// 参数区间 [0, 2π) 表示完整椭圆。
type Ellipse struct {
	BaseEntity
	Center     core.Point  // 组码 10/20/30
	MajorAxis  core.Vector // 组码 11/21，长轴端点相对圆心
	Ratio      float64     // 组码 40，短轴与长轴之比
	StartParam float64     // 组码 41，弧度
	EndParam   float64     // 组码 42，弧度
}

func init() {
	Register("ELLIPSE", func() Entity { return NewEllipse() })
}

func NewEllipse() *Ellipse {
	return &Ellipse{BaseEntity: newBase("ELLIPSE"), Ratio: 1, EndParam: 2 * math.Pi}
}

func (e *Ellipse) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if e.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 10:
			e.Center.X = t.AsFloat()
		case 20:
			e.Center.Y = t.AsFloat()
		case 30:
			e.Center.Z = t.AsFloat()
		case 11:
			e.MajorAxis.X = t.AsFloat()
		case 21:
			e.MajorAxis.Y = t.AsFloat()
		case 40:
			e.Ratio = t.AsFloat()
		case 41:
			e.StartParam = t.AsFloat()
		case 42:
			e.EndParam = t.AsFloat()
		}
	}
	return s.Err()
}

func (e *Ellipse) Emit(w *core.TagWriter) {
	e.emitCommon(w)
	w.Point3D(10, e.Center)
	w.Float(11, e.MajorAxis.X)
	w.Float(21, e.MajorAxis.Y)
	w.Float(40, e.Ratio)
	w.Float(41, e.StartParam)
	w.Float(42, e.EndParam)
}

// IsFull 判断是否为完整椭圆（参数区间覆盖整周）
func (e *Ellipse) IsFull() bool {
	return math.Abs(e.EndParam-e.StartParam) >= 2*math.Pi-1e-9
}

// PointAt 返回参数 t 处的椭圆上一点
func (e *Ellipse) PointAt(t float64) core.Point {
	major := math.Hypot(e.MajorAxis.X, e.MajorAxis.Y)
	minor := major * e.Ratio
	angle := math.Atan2(e.MajorAxis.Y, e.MajorAxis.X)
	x := major * math.Cos(t)
	y := minor * math.Sin(t)
	return core.Point{
		X: e.Center.X + x*math.Cos(angle) - y*math.Sin(angle),
		Y: e.Center.Y + x*math.Sin(angle) + y*math.Cos(angle),
		Z: e.Center.Z,
	}
}

func (e *Ellipse) BBox() (box core.BBox) {
	start, end := e.StartParam, e.EndParam
	for end < start {
		end += 2 * math.Pi
	}
	box = core.NewBBox(e.PointAt(start))
	const step = math.Pi / 16
	for t := start + step; t < end; t += step {
		box.Extend(e.PointAt(t))
	}
	box.Extend(e.PointAt(end))
	return
}
