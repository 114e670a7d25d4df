package entities

import "github.com/zooyer/zcad/core"

// Leader 旧式引线实体：一串折点加箭头与文字尺寸
type Leader struct {
	BaseEntity
	StyleName  string  // 组码 3，标注样式
	Arrowhead  bool    // 组码 71
	PathType   int     // 组码 72，0 折线 1 样条
	TextHeight float64 // 组码 40
	TextWidth  float64 // 组码 41
	Vertices   []core.Point
}

func init() {
	Register("LEADER", func() Entity { return NewLeader() })
}

func NewLeader() *Leader {
	return &Leader{BaseEntity: newBase("LEADER"), Arrowhead: true}
}

func (l *Leader) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if l.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 3:
			l.StyleName = t.AsString()
		case 71:
			l.Arrowhead = t.AsInt() != 0
		case 72:
			l.PathType = t.AsInt()
		case 76:
			l.Vertices = make([]core.Point, 0, t.AsInt())
		case 40:
			l.TextHeight = t.AsFloat()
		case 41:
			l.TextWidth = t.AsFloat()
		case 10:
			l.Vertices = append(l.Vertices, core.Point{X: t.AsFloat()})
		case 20:
			if n := len(l.Vertices); n > 0 {
				l.Vertices[n-1].Y = t.AsFloat()
			}
		case 30:
			if n := len(l.Vertices); n > 0 {
				l.Vertices[n-1].Z = t.AsFloat()
			}
		}
	}
	return s.Err()
}

func (l *Leader) Emit(w *core.TagWriter) {
	l.emitCommon(w)
	if l.StyleName != "" {
		w.Tag(3, l.StyleName)
	}
	if l.Arrowhead {
		w.Int(71, 1)
	} else {
		w.Int(71, 0)
	}
	if l.PathType != 0 {
		w.Int(72, l.PathType)
	}
	if l.TextHeight != 0 {
		w.Float(40, l.TextHeight)
	}
	if l.TextWidth != 0 {
		w.Float(41, l.TextWidth)
	}
	w.Int(76, len(l.Vertices))
	for _, p := range l.Vertices {
		w.Point3D(10, p)
	}
}

func (l *Leader) BBox() (box core.BBox) {
	if len(l.Vertices) == 0 {
		return
	}
	box = core.NewBBox(l.Vertices[0])
	for _, p := range l.Vertices[1:] {
		box.Extend(p)
	}
	return
}
