package entities

import (
	"fmt"
	"strings"

	"github.com/zooyer/zcad/core"
)

// POLYLINE 容器标志位（组码 70）
const (
	meshClosedM  = 1  // M 方向闭合
	meshPolygon  = 16 // 三维网格
	meshClosedN  = 32 // N 方向闭合
	meshPolyface = 64 // 多面网格
)

// meshVertex 容器内的 VERTEX 记录
type meshVertex struct {
	point   core.Point
	flags   int
	indices [4]int // 面记录的顶点索引（组码 71~74）
}

func (v *meshVertex) isFaceRecord() bool {
	return v.flags&128 != 0 && v.flags&64 == 0
}

// ParsePolyline 解析 POLYLINE 容器并拆解为 3DFACE 列表。
// 多面网格按面记录重组，三维网格按行列展开（考虑两个方向的闭合），
// 其余旧式多段线不支持，整体跳过并记录诊断。
// 进入时 LastTag 为 POLYLINE 类型标签，返回时停在下一个组码 0 上。
func ParsePolyline(s *core.Scanner, diag *core.Diagnostics) ([]Entity, error) {
	var (
		base     = newBase("POLYLINE")
		flags    int
		rows     int // 组码 71
		cols     int // 组码 72
		vertices []meshVertex
	)

	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if base.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 70:
			flags = t.AsInt()
		case 71:
			rows = t.AsInt()
		case 72:
			cols = t.AsInt()
		}
	}

	// 消费 VERTEX 序列直到 SEQEND
	for s.Err() == nil {
		t := s.LastTag
		if t.Code != 0 {
			break
		}
		name := strings.ToUpper(t.AsString())
		if name == "SEQEND" {
			skipBody(s)
			break
		}
		if name != "VERTEX" {
			break
		}
		var v meshVertex
		for s.Next() {
			t := s.LastTag
			if t.Code == 0 {
				break
			}
			switch t.Code {
			case 10:
				v.point.X = t.AsFloat()
			case 20:
				v.point.Y = t.AsFloat()
			case 30:
				v.point.Z = t.AsFloat()
			case 70:
				v.flags = t.AsInt()
			case 71, 72, 73, 74:
				v.indices[t.Code-71] = t.AsInt()
			}
		}
		vertices = append(vertices, v)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	switch {
	case flags&meshPolyface != 0:
		return unpackPolyface(base, vertices, diag), nil
	case flags&meshPolygon != 0:
		return unpackPolygonMesh(base, flags, rows, cols, vertices, diag), nil
	default:
		diag.Report("entities", core.SeverityWarning,
			fmt.Sprintf("不支持旧式 POLYLINE（标志 %d，句柄 %s），已跳过", flags, base.HandleID))
		return nil, nil
	}
}

// unpackPolyface 多面网格：先收集几何顶点，再按面记录组面。
// 索引为 1 起，负值表示对应边不可见，第四索引为 0 表示三角面。
func unpackPolyface(base BaseEntity, vertices []meshVertex, diag *core.Diagnostics) []Entity {
	var points []core.Point
	for _, v := range vertices {
		if v.flags&128 != 0 && v.flags&64 != 0 {
			points = append(points, v.point)
		}
	}

	var faces []Entity
	for _, v := range vertices {
		if !v.isFaceRecord() {
			continue
		}
		face := NewFace3D()
		face.LayerName = base.LayerName
		face.Color = base.Color
		valid := true
		for n, idx := range v.indices {
			if idx < 0 {
				face.EdgeFlags |= 1 << n
				idx = -idx
			}
			if idx == 0 {
				// 索引 0 表示重复前一顶点（三角面），对应边不可见
				if n == 0 {
					valid = false
					break
				}
				face.Vertices[n] = face.Vertices[n-1]
				face.EdgeFlags |= 1 << n
				continue
			}
			if idx > len(points) {
				valid = false
				break
			}
			face.Vertices[n] = points[idx-1]
		}
		if !valid {
			diag.Report("entities", core.SeverityWarning,
				fmt.Sprintf("多面网格面记录索引越界（句柄 %s），该面已跳过", base.HandleID))
			continue
		}
		faces = append(faces, face)
	}
	return faces
}

// unpackPolygonMesh 三维网格：rows×cols 顶点栅格，闭合方向回绕
func unpackPolygonMesh(base BaseEntity, flags, rows, cols int, vertices []meshVertex, diag *core.Diagnostics) []Entity {
	if rows <= 0 || cols <= 0 || len(vertices) < rows*cols {
		diag.Report("entities", core.SeverityWarning,
			fmt.Sprintf("三维网格顶点数不足: 需要 %d×%d 个，实际 %d 个（句柄 %s）", rows, cols, len(vertices), base.HandleID))
		return nil
	}

	at := func(r, c int) core.Point {
		return vertices[(r%rows)*cols+c%cols].point
	}

	faceRows := rows - 1
	if flags&meshClosedM != 0 {
		faceRows = rows
	}
	faceCols := cols - 1
	if flags&meshClosedN != 0 {
		faceCols = cols
	}

	var faces []Entity
	for r := 0; r < faceRows; r++ {
		for c := 0; c < faceCols; c++ {
			face := NewFace3D()
			face.LayerName = base.LayerName
			face.Color = base.Color
			face.Vertices[0] = at(r, c)
			face.Vertices[1] = at(r+1, c)
			face.Vertices[2] = at(r+1, c+1)
			face.Vertices[3] = at(r, c+1)
			faces = append(faces, face)
		}
	}
	return faces
}
