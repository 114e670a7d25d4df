package entities

import (
	"fmt"
	"math"

	"github.com/zooyer/golib/xmath"
	"github.com/zooyer/zcad/core"
)

// HatchEdgeKind 边界边类型（组码 72）
type HatchEdgeKind int

const (
	EdgeLine HatchEdgeKind = iota + 1
	EdgeArc
	EdgeEllipseArc
	EdgeSpline
	// EdgeSegment 由折线型边界展开而来，带凸度
	EdgeSegment
)

// HatchSplineEdge 样条型边界边的参数
type HatchSplineEdge struct {
	Degree   int
	Rational bool
	Periodic bool
	Knots    []float64
	Control  []core.Point
	Weights  []float64
	Fit      []core.Point
}

// HatchEdge 单条边界边，按 Kind 取用对应字段
type HatchEdge struct {
	Kind       HatchEdgeKind
	Start      core.Point  // line / segment
	End        core.Point  // line / segment
	Bulge      float64     // segment
	Center     core.Point  // arc / ellipse
	Radius     float64     // arc
	Major      core.Vector // ellipse，长轴端点相对圆心
	Ratio      float64     // ellipse
	StartAngle float64     // 度
	EndAngle   float64     // 度
	CCW        bool
	Spline     *HatchSplineEdge
}

// endpoints 返回边的两个端点，用于闭合性校验
func (e *HatchEdge) endpoints() (a, b core.Point) {
	switch e.Kind {
	case EdgeLine, EdgeSegment:
		return e.Start, e.End
	case EdgeArc:
		return arcPoint(e.Center, e.Radius, e.StartAngle), arcPoint(e.Center, e.Radius, e.EndAngle)
	case EdgeEllipseArc:
		return e.ellipsePoint(e.StartAngle), e.ellipsePoint(e.EndAngle)
	case EdgeSpline:
		pts := e.Spline.Control
		if len(pts) == 0 {
			pts = e.Spline.Fit
		}
		if len(pts) == 0 {
			return
		}
		return pts[0], pts[len(pts)-1]
	}
	return
}

func arcPoint(center core.Point, radius, deg float64) core.Point {
	rad := deg * math.Pi / 180
	return core.Point{X: center.X + radius*math.Cos(rad), Y: center.Y + radius*math.Sin(rad), Z: center.Z}
}

func (e *HatchEdge) ellipsePoint(deg float64) core.Point {
	major := math.Hypot(e.Major.X, e.Major.Y)
	minor := major * e.Ratio
	tilt := math.Atan2(e.Major.Y, e.Major.X)
	rad := deg * math.Pi / 180
	x := major * math.Cos(rad)
	y := minor * math.Sin(rad)
	return core.Point{
		X: e.Center.X + x*math.Cos(tilt) - y*math.Sin(tilt),
		Y: e.Center.Y + x*math.Sin(tilt) + y*math.Cos(tilt),
		Z: e.Center.Z,
	}
}

// HatchLoop 一条边界环。折线型边界在解析时展开为 EdgeSegment 序列。
type HatchLoop struct {
	Flags     int // 组码 92
	Polyline  bool
	Closed    bool
	Edges     []HatchEdge
	Malformed bool // 闭合性校验失败，环仍保留
}

// HatchGradient 渐变填充的元数据
type HatchGradient struct {
	Name        string // 组码 470
	Angle       float64
	Shift       float64
	Tint        float64
	SingleColor bool
	Colors      []float64 // 组码 463 的插值位置
}

// Hatch 填充实体
type Hatch struct {
	BaseEntity
	PatternName  string // 组码 2
	Solid        bool   // 组码 70
	Associative  bool   // 组码 71
	Style        int    // 组码 75
	PatternType  int    // 组码 76
	PatternAngle float64
	PatternScale float64
	Loops        []HatchLoop
	Gradient     *HatchGradient
}

func init() {
	Register("HATCH", func() Entity { return NewHatch() })
}

func NewHatch() *Hatch {
	return &Hatch{BaseEntity: newBase("HATCH"), PatternScale: 1}
}

const closeTolerance = 1e-6

func samePoint(a, b core.Point) bool {
	return xmath.Equal(a.X, b.X, closeTolerance) &&
		xmath.Equal(a.Y, b.Y, closeTolerance)
}

func (h *Hatch) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	if !s.Next() {
		return s.Err()
	}
	for s.Err() == nil {
		t := s.LastTag
		if t.Code <= 0 {
			break
		}
		// 边界环解析结束时已停在下一个标签上，此时不再前进
		advance := true
		if h.parseCommon(t) {
			if !s.Next() {
				break
			}
			continue
		}
		switch t.Code {
		case 2:
			h.PatternName = t.AsString()
		case 70:
			h.Solid = t.AsInt() != 0
		case 71:
			h.Associative = t.AsInt() != 0
		case 75:
			h.Style = t.AsInt()
		case 76:
			h.PatternType = t.AsInt()
		case 52:
			h.PatternAngle = t.AsFloat()
		case 41:
			h.PatternScale = t.AsFloat()
		case 91:
			count := t.AsInt()
			for n := 0; n < count && s.Err() == nil; n++ {
				loop, ok := h.parseLoop(s, n == 0)
				advance = false
				if !ok {
					break
				}
				h.Loops = append(h.Loops, loop)
			}
		case 450:
			if t.AsInt() != 0 && h.Gradient == nil {
				h.Gradient = &HatchGradient{}
			}
		case 452:
			if h.Gradient != nil {
				h.Gradient.SingleColor = t.AsInt() != 0
			}
		case 460:
			if h.Gradient != nil {
				h.Gradient.Angle = t.AsFloat()
			}
		case 461:
			if h.Gradient != nil {
				h.Gradient.Shift = t.AsFloat()
			}
		case 462:
			if h.Gradient != nil {
				h.Gradient.Tint = t.AsFloat()
			}
		case 463:
			if h.Gradient != nil {
				h.Gradient.Colors = append(h.Gradient.Colors, t.AsFloat())
			}
		case 470:
			if h.Gradient != nil {
				h.Gradient.Name = t.AsString()
			}
		}
		if advance && !s.Next() {
			break
		}
	}

	for n := range h.Loops {
		loop := &h.Loops[n]
		if !loopClosed(loop) {
			loop.Malformed = true
			diag.Report("hatch", core.SeverityWarning,
				fmt.Sprintf("填充边界环未闭合（句柄 %s，第 %d 个环），保留原始数据", h.HandleID, n+1))
		}
	}
	return s.Err()
}

// parseLoop 读取一条边界环。首个环需要前进到组码 92；每个环解析
// 完毕后 LastTag 已停在第一个不属于该环的标签上，后续环据此接力。
func (h *Hatch) parseLoop(s *core.Scanner, first bool) (loop HatchLoop, ok bool) {
	if first && !s.Next() {
		return loop, false
	}
	if s.LastTag.Code != 92 {
		return loop, false
	}
	loop.Flags = s.LastTag.AsInt()
	loop.Polyline = loop.Flags&2 != 0
	if loop.Polyline {
		h.parsePolylineLoop(s, &loop)
	} else {
		h.parseEdgeLoop(s, &loop)
	}
	return loop, true
}

// parsePolylineLoop 折线型边界：展开为带凸度的段。末顶点的凸度
// 与源边界引用（97/330）跟在顶点计数满足之后，一并消费，停在
// 第一个不属于本环的标签上。
func (h *Hatch) parsePolylineLoop(s *core.Scanner, loop *HatchLoop) {
	var vertices []PolylineVertex
collect:
	for s.Next() {
		t := s.LastTag
		switch t.Code {
		case 72, 93:
			// has-bulge 标志与顶点计数，数据行随后自然出现
		case 73:
			loop.Closed = t.AsInt() != 0
		case 10:
			vertices = append(vertices, PolylineVertex{Point: core.Point{X: t.AsFloat()}})
		case 20:
			if n := len(vertices); n > 0 {
				vertices[n-1].Point.Y = t.AsFloat()
			}
		case 42:
			if n := len(vertices); n > 0 {
				vertices[n-1].Bulge = t.AsFloat()
			}
		case 97, 330:
			// 关联边界的源实体引用，不参与几何
		default:
			break collect
		}
	}
	// 展开为段：闭合环最后一段回到起点
	last := len(vertices) - 1
	for n := 0; n < last; n++ {
		loop.Edges = append(loop.Edges, HatchEdge{
			Kind:  EdgeSegment,
			Start: vertices[n].Point,
			End:   vertices[n+1].Point,
			Bulge: vertices[n].Bulge,
		})
	}
	if loop.Closed && last > 0 && !samePoint(vertices[last].Point, vertices[0].Point) {
		loop.Edges = append(loop.Edges, HatchEdge{
			Kind:  EdgeSegment,
			Start: vertices[last].Point,
			End:   vertices[0].Point,
			Bulge: vertices[last].Bulge,
		})
	}
}

// parseEdgeLoop 普通边界：按组码 93 给出的边数逐条读取
func (h *Hatch) parseEdgeLoop(s *core.Scanner, loop *HatchLoop) {
	if !s.Next() || s.LastTag.Code != 93 {
		return
	}
	count := s.LastTag.AsInt()
	for n := 0; n < count; n++ {
		if !s.Next() || s.LastTag.Code != 72 {
			return
		}
		kind := HatchEdgeKind(s.LastTag.AsInt())
		var edge HatchEdge
		switch kind {
		case EdgeLine:
			edge = parseLineEdge(s)
		case EdgeArc:
			edge = parseArcEdge(s)
		case EdgeEllipseArc:
			edge = parseEllipseEdge(s)
		case EdgeSpline:
			edge = parseSplineEdge(s)
		default:
			return
		}
		loop.Edges = append(loop.Edges, edge)
	}
	loop.Closed = true
	// 尾随的源边界引用（97/330）一并消费，停在下一个环或字段上
	for s.Next() {
		if c := s.LastTag.Code; c != 97 && c != 330 {
			break
		}
	}
}

func parseLineEdge(s *core.Scanner) (edge HatchEdge) {
	edge.Kind = EdgeLine
	for n := 0; n < 4 && s.Next(); n++ {
		t := s.LastTag
		switch t.Code {
		case 10:
			edge.Start.X = t.AsFloat()
		case 20:
			edge.Start.Y = t.AsFloat()
		case 11:
			edge.End.X = t.AsFloat()
		case 21:
			edge.End.Y = t.AsFloat()
		}
	}
	return
}

func parseArcEdge(s *core.Scanner) (edge HatchEdge) {
	edge.Kind = EdgeArc
	for n := 0; n < 6 && s.Next(); n++ {
		t := s.LastTag
		switch t.Code {
		case 10:
			edge.Center.X = t.AsFloat()
		case 20:
			edge.Center.Y = t.AsFloat()
		case 40:
			edge.Radius = t.AsFloat()
		case 50:
			edge.StartAngle = t.AsFloat()
		case 51:
			edge.EndAngle = t.AsFloat()
		case 73:
			edge.CCW = t.AsInt() != 0
		}
	}
	return
}

func parseEllipseEdge(s *core.Scanner) (edge HatchEdge) {
	edge.Kind = EdgeEllipseArc
	for n := 0; n < 8 && s.Next(); n++ {
		t := s.LastTag
		switch t.Code {
		case 10:
			edge.Center.X = t.AsFloat()
		case 20:
			edge.Center.Y = t.AsFloat()
		case 11:
			edge.Major.X = t.AsFloat()
		case 21:
			edge.Major.Y = t.AsFloat()
		case 40:
			edge.Ratio = t.AsFloat()
		case 50:
			edge.StartAngle = t.AsFloat()
		case 51:
			edge.EndAngle = t.AsFloat()
		case 73:
			edge.CCW = t.AsInt() != 0
		}
	}
	return
}

// parseSplineEdge 按固定顺序读取样条边：参数头、节点、控制点、
// 权重，最后是拟合点计数（组码 97）与拟合点，读到即返回。
func parseSplineEdge(s *core.Scanner) (edge HatchEdge) {
	edge.Kind = EdgeSpline
	spline := &HatchSplineEdge{}
	edge.Spline = spline
	fit := -1
	for s.Next() {
		t := s.LastTag
		switch t.Code {
		case 94:
			spline.Degree = t.AsInt()
		case 73:
			spline.Rational = t.AsInt() != 0
		case 74:
			spline.Periodic = t.AsInt() != 0
		case 95, 96:
			// 节点/控制点计数，数据行随后自然出现
		case 40:
			spline.Knots = append(spline.Knots, t.AsFloat())
		case 10:
			spline.Control = append(spline.Control, core.Point{X: t.AsFloat()})
		case 20:
			if n := len(spline.Control); n > 0 {
				spline.Control[n-1].Y = t.AsFloat()
			}
		case 42:
			spline.Weights = append(spline.Weights, t.AsFloat())
		case 97:
			fit = t.AsInt()
			if fit == 0 {
				return
			}
		case 11:
			spline.Fit = append(spline.Fit, core.Point{X: t.AsFloat()})
		case 21:
			if n := len(spline.Fit); n > 0 {
				spline.Fit[n-1].Y = t.AsFloat()
			}
			if fit >= 0 && len(spline.Fit) >= fit {
				return
			}
		default:
			return
		}
	}
	return
}

// loopClosed 沿边走一圈，校验首尾相接
func loopClosed(loop *HatchLoop) bool {
	if len(loop.Edges) == 0 {
		return false
	}
	if len(loop.Edges) == 1 {
		a, b := loop.Edges[0].endpoints()
		// 单边环只有整圆（弧/椭圆扫满 360 度）才可能闭合
		return samePoint(a, b)
	}
	a, _ := loop.Edges[0].endpoints()
	if walkLoop(loop.Edges, a) {
		return true
	}
	_, b := loop.Edges[0].endpoints()
	return walkLoop(loop.Edges, b)
}

func walkLoop(edges []HatchEdge, start core.Point) bool {
	current := start
	for _, e := range edges {
		a, b := e.endpoints()
		switch {
		case samePoint(current, a):
			current = b
		case samePoint(current, b):
			current = a
		default:
			return false
		}
	}
	return samePoint(current, start)
}

func (h *Hatch) Emit(w *core.TagWriter) {
	h.emitCommon(w)
	w.Tag(2, h.PatternName)
	if h.Solid {
		w.Int(70, 1)
	} else {
		w.Int(70, 0)
	}
	if h.Associative {
		w.Int(71, 1)
	}
	w.Int(91, len(h.Loops))
	for _, loop := range h.Loops {
		h.emitLoop(w, loop)
	}
	if h.Style != 0 {
		w.Int(75, h.Style)
	}
	if h.PatternType != 0 {
		w.Int(76, h.PatternType)
	}
	if h.PatternAngle != 0 {
		w.Float(52, h.PatternAngle)
	}
	if h.PatternScale != 1 {
		w.Float(41, h.PatternScale)
	}
	if g := h.Gradient; g != nil {
		w.Int(450, 1)
		if g.SingleColor {
			w.Int(452, 1)
		} else {
			w.Int(452, 0)
		}
		w.Float(460, g.Angle)
		w.Float(461, g.Shift)
		w.Float(462, g.Tint)
		for _, c := range g.Colors {
			w.Float(463, c)
		}
		w.Tag(470, g.Name)
	}
}

func (h *Hatch) emitLoop(w *core.TagWriter, loop HatchLoop) {
	w.Int(92, loop.Flags)
	if loop.Polyline {
		hasBulge := 0
		for _, e := range loop.Edges {
			if e.Bulge != 0 {
				hasBulge = 1
				break
			}
		}
		w.Int(72, hasBulge)
		if loop.Closed {
			w.Int(73, 1)
		} else {
			w.Int(73, 0)
		}
		// 闭合环的收尾段由读取端补回，不重复写出其终点
		count := len(loop.Edges)
		if !loop.Closed {
			count++
		}
		w.Int(93, count)
		for _, e := range loop.Edges {
			w.Point2D(10, e.Start.X, e.Start.Y)
			if hasBulge != 0 {
				w.Float(42, e.Bulge)
			}
		}
		if !loop.Closed && len(loop.Edges) > 0 {
			last := loop.Edges[len(loop.Edges)-1]
			w.Point2D(10, last.End.X, last.End.Y)
			if hasBulge != 0 {
				w.Float(42, 0)
			}
		}
		return
	}
	w.Int(93, len(loop.Edges))
	for _, e := range loop.Edges {
		w.Int(72, int(e.Kind))
		switch e.Kind {
		case EdgeLine:
			w.Point2D(10, e.Start.X, e.Start.Y)
			w.Point2D(11, e.End.X, e.End.Y)
		case EdgeArc:
			w.Point2D(10, e.Center.X, e.Center.Y)
			w.Float(40, e.Radius)
			w.Float(50, e.StartAngle)
			w.Float(51, e.EndAngle)
			if e.CCW {
				w.Int(73, 1)
			} else {
				w.Int(73, 0)
			}
		case EdgeEllipseArc:
			w.Point2D(10, e.Center.X, e.Center.Y)
			w.Point2D(11, e.Major.X, e.Major.Y)
			w.Float(40, e.Ratio)
			w.Float(50, e.StartAngle)
			w.Float(51, e.EndAngle)
			if e.CCW {
				w.Int(73, 1)
			} else {
				w.Int(73, 0)
			}
		case EdgeSpline:
			sp := e.Spline
			w.Int(94, sp.Degree)
			if sp.Rational {
				w.Int(73, 1)
			} else {
				w.Int(73, 0)
			}
			if sp.Periodic {
				w.Int(74, 1)
			} else {
				w.Int(74, 0)
			}
			w.Int(95, len(sp.Knots))
			w.Int(96, len(sp.Control))
			for _, k := range sp.Knots {
				w.Float(40, k)
			}
			for _, p := range sp.Control {
				w.Point2D(10, p.X, p.Y)
			}
			for _, weight := range sp.Weights {
				w.Float(42, weight)
			}
			w.Int(97, len(sp.Fit))
			for _, p := range sp.Fit {
				w.Point2D(11, p.X, p.Y)
			}
		}
	}
}

func (h *Hatch) BBox() (box core.BBox) {
	first := true
	for _, loop := range h.Loops {
		for _, e := range loop.Edges {
			a, b := e.endpoints()
			if first {
				box = core.NewBBox(a)
				first = false
			} else {
				box.Extend(a)
			}
			box.Extend(b)
		}
	}
	return
}
