package entities

import (
	"math"

	"github.com/zooyer/zcad/core"
)

// PolylineVertex 多段线顶点，Bulge 为该顶点到下一顶点弧段的凸度
// （圆心角四分之一的正切，0 表示直线段）
type PolylineVertex struct {
	Point      core.Point
	Bulge      float64
	StartWidth float64
	EndWidth   float64
}

// Polyline 轻量多段线实体（LWPOLYLINE）
type Polyline struct {
	BaseEntity
	Closed    bool    // 组码 70 位 1
	Elevation float64 // 组码 38
	Vertices  []PolylineVertex
}

func init() {
	Register("LWPOLYLINE", func() Entity { return NewPolyline() })
}

func NewPolyline() *Polyline {
	return &Polyline{BaseEntity: newBase("LWPOLYLINE")}
}

func (p *Polyline) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if p.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 90:
			p.Vertices = make([]PolylineVertex, 0, t.AsInt())
		case 70:
			p.Closed = t.AsInt()&1 != 0
		case 38:
			p.Elevation = t.AsFloat()
		case 10:
			// 组码 10 开启一个新顶点，其后的 20/40/41/42 都附着在它身上
			p.Vertices = append(p.Vertices, PolylineVertex{Point: core.Point{X: t.AsFloat()}})
		case 20:
			if v := p.lastVertex(); v != nil {
				v.Point.Y = t.AsFloat()
			}
		case 40:
			if v := p.lastVertex(); v != nil {
				v.StartWidth = t.AsFloat()
			}
		case 41:
			if v := p.lastVertex(); v != nil {
				v.EndWidth = t.AsFloat()
			}
		case 42:
			if v := p.lastVertex(); v != nil {
				v.Bulge = t.AsFloat()
			}
		}
	}
	return s.Err()
}

func (p *Polyline) lastVertex() *PolylineVertex {
	if len(p.Vertices) == 0 {
		return nil
	}
	return &p.Vertices[len(p.Vertices)-1]
}

func (p *Polyline) Emit(w *core.TagWriter) {
	p.emitCommon(w)
	w.Int(90, len(p.Vertices))
	if p.Closed {
		w.Int(70, 1)
	} else {
		w.Int(70, 0)
	}
	if p.Elevation != 0 {
		w.Float(38, p.Elevation)
	}
	for _, v := range p.Vertices {
		w.Point2D(10, v.Point.X, v.Point.Y)
		if v.StartWidth != 0 {
			w.Float(40, v.StartWidth)
		}
		if v.EndWidth != 0 {
			w.Float(41, v.EndWidth)
		}
		if v.Bulge != 0 {
			w.Float(42, v.Bulge)
		}
	}
}

func (p *Polyline) BBox() (box core.BBox) {
	if len(p.Vertices) == 0 {
		return
	}
	box = core.NewBBox(p.Vertices[0].Point)
	for _, v := range p.Vertices[1:] {
		box.Extend(v.Point)
	}
	// 带凸度的弧段可能越过顶点连线，补上弧的中点
	for i, v := range p.Vertices {
		if v.Bulge == 0 {
			continue
		}
		next := i + 1
		if next == len(p.Vertices) {
			if !p.Closed {
				continue
			}
			next = 0
		}
		box.Extend(bulgeMidpoint(v.Point, p.Vertices[next].Point, v.Bulge))
	}
	return
}

// bulgeMidpoint 返回凸度弧段的中点
func bulgeMidpoint(a, b core.Point, bulge float64) core.Point {
	mx, my := (a.X+b.X)/2, (a.Y+b.Y)/2
	dx, dy := b.X-a.X, b.Y-a.Y
	// 凸度即弧高与半弦长之比，中点沿弦的法向偏移弧高
	sagitta := bulge * math.Hypot(dx, dy) / 2
	length := math.Hypot(dx, dy)
	if length == 0 {
		return core.Point{X: mx, Y: my, Z: a.Z}
	}
	return core.Point{X: mx - dy/length*sagitta, Y: my + dx/length*sagitta, Z: a.Z}
}
