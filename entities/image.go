package entities

import (
	"fmt"

	"github.com/zooyer/zcad/core"
)

// ClipBoundary 光栅图像的裁剪边界。两点为矩形，三点以上为多边形。
// 几何与启用状态相互独立：停用裁剪不会丢弃边界数据。
type ClipBoundary struct {
	Rect     bool
	Min, Max core.Point   // 矩形对角点（已归一化）
	Vertices []core.Point // 多边形顶点
	CCW      bool         // 多边形绕向
}

// 裁剪边界采集的状态机
const (
	clipIdle = iota
	clipCollecting
	clipComplete
)

// rasterFields 是 IMAGE 与 WIPEOUT 共享的字段与解析逻辑
type rasterFields struct {
	Insert        core.Point  // 组码 10/20/30
	U             core.Point  // 组码 11/21/31，单像素 U 方向向量
	V             core.Point  // 组码 12/22/32
	Size          core.Vector // 组码 13/23，像素尺寸
	DefHandle     string      // 组码 340，IMAGEDEF 对象
	ReactorHandle string      // 组码 360，IMAGEDEF_REACTOR 对象
	Display       int         // 组码 70
	ClipEnabled   bool        // 组码 280
	Brightness    int         // 组码 281
	Contrast      int         // 组码 282
	Fade          int         // 组码 283
	ClipType      int         // 组码 71，1 矩形 2 多边形
	Clip          *ClipBoundary

	clipState int
	clipCount int
	clipVerts []core.Point
}

func (r *rasterFields) parseField(t core.Tag) bool {
	switch t.Code {
	case 10:
		r.Insert.X = t.AsFloat()
	case 20:
		r.Insert.Y = t.AsFloat()
	case 30:
		r.Insert.Z = t.AsFloat()
	case 11:
		r.U.X = t.AsFloat()
	case 21:
		r.U.Y = t.AsFloat()
	case 31:
		r.U.Z = t.AsFloat()
	case 12:
		r.V.X = t.AsFloat()
	case 22:
		r.V.Y = t.AsFloat()
	case 32:
		r.V.Z = t.AsFloat()
	case 13:
		r.Size.X = t.AsFloat()
	case 23:
		r.Size.Y = t.AsFloat()
	case 340:
		r.DefHandle = t.AsString()
	case 360:
		r.ReactorHandle = t.AsString()
	case 70:
		r.Display = t.AsInt()
	case 280:
		r.ClipEnabled = t.AsInt() != 0
	case 281:
		r.Brightness = t.AsInt()
	case 282:
		r.Contrast = t.AsInt()
	case 283:
		r.Fade = t.AsInt()
	case 71:
		r.ClipType = t.AsInt()
	case 91:
		r.clipCount = t.AsInt()
		r.clipState = clipCollecting
	case 14:
		// 组码 91 可能缺失，点对无条件采集，计数只用于判定多边形完成
		r.clipVerts = append(r.clipVerts, core.Point{X: t.AsFloat()})
		if r.clipState == clipIdle {
			r.clipState = clipCollecting
		}
	case 24:
		if len(r.clipVerts) == 0 {
			return true
		}
		r.clipVerts[len(r.clipVerts)-1].Y = t.AsFloat()
		if r.clipCount > 0 && len(r.clipVerts) >= r.clipCount {
			r.clipState = clipComplete
		}
	default:
		return false
	}
	return true
}

// finishClip 根据采集到的顶点构建裁剪边界：两点为矩形，三点以上
// 为多边形。启用标志独立存放，停用时几何原样保留。
func (r *rasterFields) finishClip(handle string, diag *core.Diagnostics) {
	if len(r.clipVerts) == 0 {
		return
	}
	switch {
	case len(r.clipVerts) == 2:
		a, b := r.clipVerts[0], r.clipVerts[1]
		boundary := &ClipBoundary{Rect: true, Min: a, Max: b}
		if boundary.Max.X < boundary.Min.X {
			boundary.Min.X, boundary.Max.X = boundary.Max.X, boundary.Min.X
		}
		if boundary.Max.Y < boundary.Min.Y {
			boundary.Min.Y, boundary.Max.Y = boundary.Max.Y, boundary.Min.Y
		}
		r.Clip = boundary
	case len(r.clipVerts) >= 3:
		r.Clip = &ClipBoundary{Vertices: r.clipVerts, CCW: signedArea(r.clipVerts) > 0}
	default:
		diag.Report("image", core.SeverityWarning,
			fmt.Sprintf("裁剪边界顶点不足（句柄 %s），边界已忽略", handle))
	}
	r.clipVerts = nil
	r.clipCount = 0
	r.clipState = clipComplete
}

// signedArea 多边形有向面积的两倍，正值为逆时针
func signedArea(pts []core.Point) float64 {
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum
}

func (r *rasterFields) emitFields(w *core.TagWriter) {
	w.Point3D(10, r.Insert)
	w.Point3D(11, r.U)
	w.Point3D(12, r.V)
	w.Float(13, r.Size.X)
	w.Float(23, r.Size.Y)
	if r.DefHandle != "" {
		w.Tag(340, r.DefHandle)
	}
	w.Int(70, r.Display)
	if r.ClipEnabled {
		w.Int(280, 1)
	} else {
		w.Int(280, 0)
	}
	w.Int(281, r.Brightness)
	w.Int(282, r.Contrast)
	w.Int(283, r.Fade)
	if r.ReactorHandle != "" {
		w.Tag(360, r.ReactorHandle)
	}
	if clip := r.Clip; clip != nil {
		if clip.Rect {
			w.Int(71, 1)
			w.Int(91, 2)
			w.Point2D(14, clip.Min.X, clip.Min.Y)
			w.Point2D(14, clip.Max.X, clip.Max.Y)
		} else {
			w.Int(71, 2)
			w.Int(91, len(clip.Vertices))
			for _, p := range clip.Vertices {
				w.Point2D(14, p.X, p.Y)
			}
		}
	}
}

func (r *rasterFields) bbox(first core.Point) core.BBox {
	box := core.NewBBox(first)
	// 图像范围由插入点与 U/V 向量乘像素尺寸确定
	u := core.Point{X: r.U.X * r.Size.X, Y: r.U.Y * r.Size.X, Z: r.U.Z * r.Size.X}
	v := core.Point{X: r.V.X * r.Size.Y, Y: r.V.Y * r.Size.Y, Z: r.V.Z * r.Size.Y}
	box.Extend(core.Point{X: first.X + u.X, Y: first.Y + u.Y, Z: first.Z + u.Z})
	box.Extend(core.Point{X: first.X + v.X, Y: first.Y + v.Y, Z: first.Z + v.Z})
	box.Extend(core.Point{X: first.X + u.X + v.X, Y: first.Y + u.Y + v.Y, Z: first.Z + u.Z + v.Z})
	return box
}

// RasterImage 光栅图像实体，像素内容由 OBJECTS 段的 IMAGEDEF 提供
type RasterImage struct {
	BaseEntity
	rasterFields
}

func init() {
	Register("IMAGE", func() Entity { return NewRasterImage() })
	Register("WIPEOUT", func() Entity { return NewWipeout() })
}

func NewRasterImage() *RasterImage {
	return &RasterImage{
		BaseEntity:   newBase("IMAGE"),
		rasterFields: rasterFields{U: core.Point{X: 1}, V: core.Point{Y: 1}, Brightness: 50, Contrast: 50},
	}
}

func (r *RasterImage) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if r.parseCommon(t) {
			continue
		}
		r.parseField(t)
	}
	r.finishClip(r.HandleID, diag)
	return s.Err()
}

func (r *RasterImage) Emit(w *core.TagWriter) {
	r.emitCommon(w)
	r.emitFields(w)
}

func (r *RasterImage) BBox() core.BBox {
	return r.bbox(r.Insert)
}

// Wipeout 遮罩实体，结构与光栅图像一致但不引用外部文件
type Wipeout struct {
	BaseEntity
	rasterFields
}

func NewWipeout() *Wipeout {
	return &Wipeout{
		BaseEntity:   newBase("WIPEOUT"),
		rasterFields: rasterFields{U: core.Point{X: 1}, V: core.Point{Y: 1}, Brightness: 50, Contrast: 50},
	}
}

func (w *Wipeout) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if w.parseCommon(t) {
			continue
		}
		w.parseField(t)
	}
	w.finishClip(w.HandleID, diag)
	return s.Err()
}

func (w *Wipeout) Emit(tw *core.TagWriter) {
	w.emitCommon(tw)
	w.emitFields(tw)
}

func (w *Wipeout) BBox() core.BBox {
	return w.bbox(w.Insert)
}
