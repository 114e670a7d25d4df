package entities

import "github.com/zooyer/zcad/core"

// Line 直线段实体
type Line struct {
	BaseEntity
	Start core.Point // 组码 10/20/30
	End   core.Point // 组码 11/21/31
}

func init() {
	Register("LINE", func() Entity { return NewLine() })
}

func NewLine() *Line {
	return &Line{BaseEntity: newBase("LINE")}
}

func (l *Line) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if l.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 10:
			l.Start.X = t.AsFloat()
		case 20:
			l.Start.Y = t.AsFloat()
		case 30:
			l.Start.Z = t.AsFloat()
		case 11:
			l.End.X = t.AsFloat()
		case 21:
			l.End.Y = t.AsFloat()
		case 31:
			l.End.Z = t.AsFloat()
		}
	}
	return s.Err()
}

func (l *Line) Emit(w *core.TagWriter) {
	l.emitCommon(w)
	w.Point3D(10, l.Start)
	w.Point3D(11, l.End)
}

func (l *Line) BBox() (box core.BBox) {
	box = core.NewBBox(l.Start)
	box.Extend(l.End)
	return
}
