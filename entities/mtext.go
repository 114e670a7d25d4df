package entities

import (
	"strings"
	"unicode/utf8"

	"github.com/zooyer/zcad/core"
)

// MText 多行文字实体。原始内容可能分片存放在若干组码 3 与一个
// 组码 1 中，解析时先拼接再解码控制序列。
type MText struct {
	BaseEntity
	Insert        core.Point   // 组码 10/20/30
	Height        float64      // 组码 40
	RefWidth      float64      // 组码 41，换行参考宽度
	Content       string       // 解码后的文本
	Rotation      float64      // 组码 50，度
	Direction     *core.Vector // 组码 11/21，文本方向（与 50 二选一）
	Attachment    int          // 组码 71，锚点 1~9
	DrawDirection int          // 组码 72
	Style         string       // 组码 7
}

func init() {
	Register("MTEXT", func() Entity { return NewMText() })
}

func NewMText() *MText {
	return &MText{BaseEntity: newBase("MTEXT"), Attachment: 1}
}

func (m *MText) Parse(s *core.Scanner, diag *core.Diagnostics) error {
	var raw strings.Builder
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		if m.parseCommon(t) {
			continue
		}
		switch t.Code {
		case 10:
			m.Insert.X = t.AsFloat()
		case 20:
			m.Insert.Y = t.AsFloat()
		case 30:
			m.Insert.Z = t.AsFloat()
		case 40:
			m.Height = t.AsFloat()
		case 41:
			m.RefWidth = t.AsFloat()
		case 3:
			raw.WriteString(t.Value)
		case 1:
			raw.WriteString(t.Value)
		case 50:
			m.Rotation = t.AsFloat()
		case 11:
			m.ensureDirection().X = t.AsFloat()
		case 21:
			m.ensureDirection().Y = t.AsFloat()
		case 71:
			m.Attachment = t.AsInt()
		case 72:
			m.DrawDirection = t.AsInt()
		case 7:
			m.Style = t.AsString()
		}
	}
	m.Content = DecodeMText(raw.String())
	return s.Err()
}

func (m *MText) ensureDirection() *core.Vector {
	if m.Direction == nil {
		m.Direction = &core.Vector{}
	}
	return m.Direction
}

func (m *MText) Emit(w *core.TagWriter) {
	m.emitCommon(w)
	w.Point3D(10, m.Insert)
	w.Float(40, m.Height)
	if m.RefWidth != 0 {
		w.Float(41, m.RefWidth)
	}
	// 超长内容拆片：组码 3 若干，最后一片用组码 1
	chunks := splitChunks(EncodeMText(m.Content))
	for _, chunk := range chunks[:len(chunks)-1] {
		w.Tag(3, chunk)
	}
	w.Tag(1, chunks[len(chunks)-1])
	if m.Rotation != 0 {
		w.Float(50, m.Rotation)
	}
	if m.Direction != nil {
		w.Float(11, m.Direction.X)
		w.Float(21, m.Direction.Y)
	}
	if m.Attachment != 1 {
		w.Int(71, m.Attachment)
	}
	if m.DrawDirection != 0 {
		w.Int(72, m.DrawDirection)
	}
	if m.Style != "" {
		w.Tag(7, m.Style)
	}
}

func (m *MText) BBox() (box core.BBox) {
	box = core.NewBBox(m.Insert)
	width := m.RefWidth
	if width == 0 {
		width = m.Height * float64(len(m.Content))
	}
	box.Extend(core.Point{X: m.Insert.X + width, Y: m.Insert.Y - m.Height, Z: m.Insert.Z})
	return
}

// DecodeMText 将原始 MTEXT 内容解码为纯文本：
// \P 换行，\~ 不断行空格，\\、\{、\} 还原字面量，
// \S…; 堆叠文字保留分子分母，其余格式控制序列剔除。
func DecodeMText(raw string) string {
	var out strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '\\':
			if i+1 >= len(raw) {
				break
			}
			i++
			switch raw[i] {
			case 'P', 'p':
				out.WriteByte('\n')
			case '~':
				out.WriteByte(' ')
			case '\\', '{', '}':
				out.WriteByte(raw[i])
			case 'L', 'l', 'O', 'o', 'K', 'k':
				// 下划线/上划线/删除线开关，无参数
			case 'S':
				// 堆叠文字：\S上^下; 保留内容，去掉控制符
				end := strings.IndexByte(raw[i:], ';')
				if end < 0 {
					out.WriteString(raw[i+1:])
					i = len(raw)
					break
				}
				body := raw[i+1 : i+end]
				body = strings.ReplaceAll(body, "^", "/")
				body = strings.ReplaceAll(body, "#", "/")
				out.WriteString(body)
				i += end
			default:
				// 带参数的格式序列（\f \H \W \A \C \T \Q …）到分号为止
				end := strings.IndexByte(raw[i:], ';')
				if end < 0 {
					i = len(raw)
					break
				}
				i += end
			}
		case '{', '}':
			// 格式分组括号不进入纯文本
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// splitChunks 把编码后的内容按约 250 字节拆片，
// 只在字符边界断开，保证每一行都是完整的 UTF-8
func splitChunks(encoded string) []string {
	const chunkSize = 250
	var chunks []string
	for len(encoded) > chunkSize {
		cut := chunkSize
		for cut > 0 && !utf8.RuneStart(encoded[cut]) {
			cut--
		}
		if cut == 0 {
			cut = chunkSize
		}
		chunks = append(chunks, encoded[:cut])
		encoded = encoded[cut:]
	}
	return append(chunks, encoded)
}

// EncodeMText 为 DecodeMText 的逆向，仅编码必需的字面量
func EncodeMText(content string) string {
	var out strings.Builder
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\\':
			out.WriteString(`\\`)
		case '{':
			out.WriteString(`\{`)
		case '}':
			out.WriteString(`\}`)
		case '\n':
			out.WriteString(`\P`)
		default:
			out.WriteByte(content[i])
		}
	}
	return out.String()
}
