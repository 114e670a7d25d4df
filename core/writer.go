package core

import (
	"bufio"
	"io"
	"strconv"
)

// TagWriter 是 Scanner 的逆向：把 (组码, 值) 对写成组码流。
// 浮点使用最短可还原格式，保证写出再读回坐标逐位一致。
type TagWriter struct {
	w   *bufio.Writer
	err error
}

func NewTagWriter(w io.Writer) *TagWriter {
	return &TagWriter{w: bufio.NewWriter(w)}
}

// Tag 写出一对原始标签
func (t *TagWriter) Tag(code int, value string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(strconv.Itoa(code)); err != nil {
		t.err = err
		return
	}
	if err := t.w.WriteByte('\n'); err != nil {
		t.err = err
		return
	}
	if _, err := t.w.WriteString(value); err != nil {
		t.err = err
		return
	}
	t.err = t.w.WriteByte('\n')
}

// Int 写出整数值标签
func (t *TagWriter) Int(code, value int) {
	t.Tag(code, strconv.Itoa(value))
}

// Float 写出浮点值标签
func (t *TagWriter) Float(code int, value float64) {
	t.Tag(code, strconv.FormatFloat(value, 'g', -1, 64))
}

// Point2D 按 DXF 约定写出 XY 坐标对（Y 组码 = X 组码 + 10）
func (t *TagWriter) Point2D(code int, x, y float64) {
	t.Float(code, x)
	t.Float(code+10, y)
}

// Point3D 写出 XYZ 坐标组
func (t *TagWriter) Point3D(code int, p Point) {
	t.Float(code, p.X)
	t.Float(code+10, p.Y)
	t.Float(code+20, p.Z)
}

// Flush 刷出缓冲并返回累计错误
func (t *TagWriter) Flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

// Err 返回写出过程中的第一个错误
func (t *TagWriter) Err() error {
	return t.err
}
