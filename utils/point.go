package utils

import (
	"math"

	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// Transform 把块内坐标换算到世界坐标：缩放、旋转、平移
func Transform(p core.Point, ins *entities.Insert) core.Point {
	x := p.X * ins.Scale.X
	y := p.Y * ins.Scale.Y
	z := p.Z * ins.Scale.Z
	rad := ins.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return core.Point{
		X: x*cos - y*sin + ins.Insertion.X,
		Y: x*sin + y*cos + ins.Insertion.Y,
		Z: z + ins.Insertion.Z,
	}
}

// TransformBBox 变换包围盒（取四角变换后重新取包络）
func TransformBBox(box core.BBox, ins *entities.Insert) core.BBox {
	corners := []core.Point{
		box.Min,
		{X: box.Max.X, Y: box.Min.Y, Z: box.Min.Z},
		{X: box.Min.X, Y: box.Max.Y, Z: box.Min.Z},
		box.Max,
	}
	out := core.NewBBox(Transform(corners[0], ins))
	for _, c := range corners[1:] {
		out.Extend(Transform(c, ins))
	}
	return out
}
