package entities

import "github.com/zooyer/zcad/core"

// Face3D 三/四边面片实体（3DFACE）。三角面片第四点与第三点重合。
// 网格类容器实体在解析阶段统一拆解为本类型。
type Face3D struct {
	BaseEntity
	Vertices  [4]core.Point // 组码 10~13 / 20~23 / 30~33
	EdgeFlags int           // 组码 70，位 n 表示第 n 条边不可见
}

func init() {
	Register("3DFACE", func() Entity { return NewFace3D() })
}

func NewFace3D() *Face3D {
	return &Face3D{BaseEntity: newBase("3DFACE")}
}

func (f *Face3D) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			return nil
		}
		if f.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 10, 11, 12, 13:
			f.Vertices[t.Code-10].X = t.AsFloat()
		case 20, 21, 22, 23:
			f.Vertices[t.Code-20].Y = t.AsFloat()
		case 30, 31, 32, 33:
			f.Vertices[t.Code-30].Z = t.AsFloat()
		case 70:
			f.EdgeFlags = t.AsInt()
		}
	}
	return s.Err()
}

func (f *Face3D) Emit(w *core.TagWriter) {
	f.emitCommon(w)
	for n, v := range f.Vertices {
		w.Point3D(10+n, v)
	}
	if f.EdgeFlags != 0 {
		w.Int(70, f.EdgeFlags)
	}
}

// IsTriangle 判断是否为三角面片
func (f *Face3D) IsTriangle() bool {
	return f.Vertices[3] == f.Vertices[2]
}

// EdgeVisible 判断第 n 条边（0 起）是否可见
func (f *Face3D) EdgeVisible(n int) bool {
	return f.EdgeFlags&(1<<n) == 0
}

func (f *Face3D) BBox() (box core.BBox) {
	box = core.NewBBox(f.Vertices[0])
	for _, v := range f.Vertices[1:] {
		box.Extend(v)
	}
	return
}
