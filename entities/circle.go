package entities

import (
	"math"

	"github.com/zooyer/zcad/core"
)

// Circle 圆实体
type Circle struct {
	BaseEntity
	Center core.Point // 组码 10/20/30
	Radius float64    // 组码 40
}

func init() {
	Register("CIRCLE", func() Entity { return NewCircle() })
}

func NewCircle() *Circle {
	return &Circle{BaseEntity: newBase("CIRCLE")}
}

func (c *Circle) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if c.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 10:
			c.Center.X = t.AsFloat()
		case 20:
			c.Center.Y = t.AsFloat()
		case 30:
			c.Center.Z = t.AsFloat()
		case 40:
			c.Radius = t.AsFloat()
		}
	}
	return s.Err()
}

func (c *Circle) Emit(w *core.TagWriter) {
	c.emitCommon(w)
	w.Point3D(10, c.Center)
	w.Float(40, c.Radius)
}

func (c *Circle) BBox() (box core.BBox) {
	box = core.NewBBox(core.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Z: c.Center.Z})
	box.Extend(core.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius, Z: c.Center.Z})
	return
}

// Arc 圆弧实体，角度以度为单位，逆时针方向
type Arc struct {
	BaseEntity
	Center     core.Point // 组码 10/20/30
	Radius     float64    // 组码 40
	StartAngle float64    // 组码 50
	EndAngle   float64    // 组码 51
}

func init() {
	Register("ARC", func() Entity { return NewArc() })
}

func NewArc() *Arc {
	return &Arc{BaseEntity: newBase("ARC")}
}

func (a *Arc) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if a.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 10:
			a.Center.X = t.AsFloat()
		case 20:
			a.Center.Y = t.AsFloat()
		case 30:
			a.Center.Z = t.AsFloat()
		case 40:
			a.Radius = t.AsFloat()
		case 50:
			a.StartAngle = t.AsFloat()
		case 51:
			a.EndAngle = t.AsFloat()
		}
	}
	return s.Err()
}

func (a *Arc) Emit(w *core.TagWriter) {
	a.emitCommon(w)
	w.Point3D(10, a.Center)
	w.Float(40, a.Radius)
	w.Float(50, a.StartAngle)
	w.Float(51, a.EndAngle)
}

// StartPoint 返回弧线起点
func (a *Arc) StartPoint() core.Point {
	return a.pointAt(a.StartAngle)
}

// EndPoint 返回弧线终点
func (a *Arc) EndPoint() core.Point {
	return a.pointAt(a.EndAngle)
}

func (a *Arc) pointAt(deg float64) core.Point {
	rad := deg * math.Pi / 180
	return core.Point{
		X: a.Center.X + a.Radius*math.Cos(rad),
		Y: a.Center.Y + a.Radius*math.Sin(rad),
		Z: a.Center.Z,
	}
}

func (a *Arc) BBox() (box core.BBox) {
	box = core.NewBBox(a.StartPoint())
	box.Extend(a.EndPoint())
	// 跨越象限边界时把极值点也并进来
	start, end := a.StartAngle, a.EndAngle
	for end < start {
		end += 360
	}
	for deg := math.Ceil(start/90) * 90; deg <= end; deg += 90 {
		box.Extend(a.pointAt(deg))
	}
	return
}
