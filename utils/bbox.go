package utils

import (
	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// 块引用展开的最大嵌套深度，防止自引用块造成死循环
const maxInsertDepth = 8

// EntityBBoxWCS 计算实体的世界坐标包围盒。块引用展开其块定义
// 的内容并套用插入变换，其余实体直接取自身包围盒。
func EntityBBoxWCS(doc *zcad.Document, e entities.Entity) core.BBox {
	return entityBBox(doc, e, 0)
}

func entityBBox(doc *zcad.Document, e entities.Entity, depth int) core.BBox {
	ins, ok := e.(*entities.Insert)
	if !ok {
		return e.BBox()
	}
	if depth >= maxInsertDepth {
		return core.NewBBox(ins.Insertion)
	}
	block, ok := doc.Block(ins.BlockName)
	if !ok || len(block.Entities) == 0 {
		return core.NewBBox(ins.Insertion)
	}

	var box core.BBox
	first := true
	for _, sub := range block.Entities {
		b := entityBBox(doc, sub, depth+1)
		// 块内坐标以基点为原点
		b.Min.X -= block.Base.X
		b.Min.Y -= block.Base.Y
		b.Min.Z -= block.Base.Z
		b.Max.X -= block.Base.X
		b.Max.Y -= block.Base.Y
		b.Max.Z -= block.Base.Z
		b = TransformBBox(b, ins)
		if first {
			box, first = b, false
		} else {
			box.Merge(b)
		}
	}
	if first {
		return core.NewBBox(ins.Insertion)
	}
	return box
}

// DocumentBBox 计算全部顶层实体的世界坐标总包围盒
func DocumentBBox(doc *zcad.Document) (core.BBox, bool) {
	var box core.BBox
	first := true
	for _, e := range doc.Entities() {
		b := EntityBBoxWCS(doc, e)
		if first {
			box, first = b, false
		} else {
			box.Merge(b)
		}
	}
	return box, !first
}

// InBox 判断点是否落在包围盒内（含边界）
func InBox(p core.Point, box core.BBox) bool {
	return p.X >= box.Min.X && p.X <= box.Max.X &&
		p.Y >= box.Min.Y && p.Y <= box.Max.Y &&
		p.Z >= box.Min.Z && p.Z <= box.Max.Z
}
