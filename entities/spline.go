package entities

import (
	"fmt"

	"github.com/zooyer/zcad/core"
)

// 样条标志位（组码 70）
const (
	SplineClosed = 1 << iota
	SplinePeriodic
	SplineRational
	SplinePlanar
)

// Spline NURBS 样条实体。节点数须满足 控制点数 + 阶数 + 1，
// 不满足时标记 KnotMismatch 并保留原始数据，由调用方决定取舍。
type Spline struct {
	BaseEntity
	Flags         int     // 组码 70
	Degree        int     // 组码 71
	Knots         []float64
	ControlPoints []core.Point
	FitPoints     []core.Point
	Weights       []float64
	StartTangent  *core.Vector // 组码 12/22
	EndTangent    *core.Vector // 组码 13/23
	KnotMismatch  bool
}

func init() {
	Register("SPLINE", func() Entity { return NewSpline() })
}

func NewSpline() *Spline {
	return &Spline{BaseEntity: newBase("SPLINE"), Degree: 3}
}

func (sp *Spline) Closed() bool   { return sp.Flags&SplineClosed != 0 }
func (sp *Spline) Periodic() bool { return sp.Flags&SplinePeriodic != 0 }
func (sp *Spline) Rational() bool { return sp.Flags&SplineRational != 0 }

func (sp *Spline) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if sp.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 70:
			sp.Flags = t.AsInt()
		case 71:
			sp.Degree = t.AsInt()
		case 40:
			sp.Knots = append(sp.Knots, t.AsFloat())
		case 41:
			sp.Weights = append(sp.Weights, t.AsFloat())
		case 10:
			sp.ControlPoints = append(sp.ControlPoints, core.Point{X: t.AsFloat()})
		case 20:
			if n := len(sp.ControlPoints); n > 0 {
				sp.ControlPoints[n-1].Y = t.AsFloat()
			}
		case 30:
			if n := len(sp.ControlPoints); n > 0 {
				sp.ControlPoints[n-1].Z = t.AsFloat()
			}
		case 11:
			sp.FitPoints = append(sp.FitPoints, core.Point{X: t.AsFloat()})
		case 21:
			if n := len(sp.FitPoints); n > 0 {
				sp.FitPoints[n-1].Y = t.AsFloat()
			}
		case 31:
			if n := len(sp.FitPoints); n > 0 {
				sp.FitPoints[n-1].Z = t.AsFloat()
			}
		case 12:
			sp.ensureStartTangent().X = t.AsFloat()
		case 22:
			sp.ensureStartTangent().Y = t.AsFloat()
		case 13:
			sp.ensureEndTangent().X = t.AsFloat()
		case 23:
			sp.ensureEndTangent().Y = t.AsFloat()
		}
	}

	// 节点数量校验：n + degree + 1
	if want := len(sp.ControlPoints) + sp.Degree + 1; len(sp.Knots) != 0 && len(sp.Knots) != want {
		sp.KnotMismatch = true
		diag.Report("spline", core.SeverityWarning,
			fmt.Sprintf("样条节点数不一致: 期望 %d 个，实际 %d 个（句柄 %s）", want, len(sp.Knots), sp.HandleID))
	}
	return s.Err()
}

func (sp *Spline) ensureStartTangent() *core.Vector {
	if sp.StartTangent == nil {
		sp.StartTangent = &core.Vector{}
	}
	return sp.StartTangent
}

func (sp *Spline) ensureEndTangent() *core.Vector {
	if sp.EndTangent == nil {
		sp.EndTangent = &core.Vector{}
	}
	return sp.EndTangent
}

func (sp *Spline) Emit(w *core.TagWriter) {
	sp.emitCommon(w)
	w.Int(70, sp.Flags)
	w.Int(71, sp.Degree)
	for _, k := range sp.Knots {
		w.Float(40, k)
	}
	for _, weight := range sp.Weights {
		w.Float(41, weight)
	}
	for _, p := range sp.ControlPoints {
		w.Point3D(10, p)
	}
	for _, p := range sp.FitPoints {
		w.Point3D(11, p)
	}
	if sp.StartTangent != nil {
		w.Float(12, sp.StartTangent.X)
		w.Float(22, sp.StartTangent.Y)
	}
	if sp.EndTangent != nil {
		w.Float(13, sp.EndTangent.X)
		w.Float(23, sp.EndTangent.Y)
	}
}

func (sp *Spline) BBox() (box core.BBox) {
	points := sp.ControlPoints
	if len(points) == 0 {
		points = sp.FitPoints
	}
	if len(points) == 0 {
		return
	}
	// 样条整体位于控制点凸包内，包围盒取控制点即可
	box = core.NewBBox(points[0])
	for _, p := range points[1:] {
		box.Extend(p)
	}
	return
}
