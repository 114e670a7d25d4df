package entities

import (
	"strings"

	"github.com/zooyer/zcad/core"
)

// MLeaderContent 多重引线的标签内容类型（组码 172）
type MLeaderContent int

const (
	ContentNone MLeaderContent = iota
	ContentBlock
	ContentMText
)

// MLeaderBlock 块内容：引用一个（通常是匿名的）块定义。
// 解析阶段只拿到句柄，名字在引用解析时回填。
type MLeaderBlock struct {
	Handle   string     // 组码 344
	Name     string     // 解析引用后回填
	Location core.Point // 组码 15/25/35
	Scale    core.Point // 组码 16/26/36
	Rotation float64    // 组码 46，度
}

// MLeader 多重引线实体。上下文数据以字符串标记
// （CONTEXT_DATA{ / LEADER{ / LEADER_LINE{ / }）分组，
// 每个 LEADER_LINE{ 开启一串新的引线折点。
type MLeader struct {
	BaseEntity
	StyleHandle  string         // 组码 340
	ContentType  MLeaderContent // 组码 172
	LeaderLines  [][]core.Point
	DoglegLength float64 // 组码 41
	ArrowSize    float64 // 组码 42
	LandingGap   float64 // 组码 43
	Text         string  // 组码 304，已解码
	TextHeight   float64 // 组码 45
	Block        *MLeaderBlock
}

func init() {
	Register("MULTILEADER", func() Entity { return NewMLeader() })
}

func NewMLeader() *MLeader {
	return &MLeader{BaseEntity: newBase("MULTILEADER")}
}

func (m *MLeader) Parse(s *core.Scanner, diag *core.Diagnostics) error {
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
		case 340:
			m.StyleHandle = t.AsString()
		case 172:
			m.ContentType = MLeaderContent(t.AsInt())
		case 41:
			m.DoglegLength = t.AsFloat()
		case 42:
			m.ArrowSize = t.AsFloat()
		case 43:
			m.LandingGap = t.AsFloat()
		case 45:
			m.TextHeight = t.AsFloat()
		case 304:
			raw.WriteString(t.Value)
		case 300, 301, 302:
			// 上下文分组标记，无数据
		case 303:
			// LEADER_LINE{ 开启新引线
			m.LeaderLines = append(m.LeaderLines, nil)
		case 10:
			if len(m.LeaderLines) == 0 {
				m.LeaderLines = append(m.LeaderLines, nil)
			}
			last := len(m.LeaderLines) - 1
			m.LeaderLines[last] = append(m.LeaderLines[last], core.Point{X: t.AsFloat()})
		case 20:
			if p := m.lastPoint(); p != nil {
				p.Y = t.AsFloat()
			}
		case 30:
			if p := m.lastPoint(); p != nil {
				p.Z = t.AsFloat()
			}
		case 344:
			m.ensureBlock().Handle = t.AsString()
		case 15:
			m.ensureBlock().Location.X = t.AsFloat()
		case 25:
			m.ensureBlock().Location.Y = t.AsFloat()
		case 35:
			m.ensureBlock().Location.Z = t.AsFloat()
		case 16:
			m.ensureBlock().Scale.X = t.AsFloat()
		case 26:
			m.ensureBlock().Scale.Y = t.AsFloat()
		case 36:
			m.ensureBlock().Scale.Z = t.AsFloat()
		case 46:
			m.ensureBlock().Rotation = t.AsFloat()
		}
	}
	m.Text = DecodeMText(raw.String())
	return s.Err()
}

func (m *MLeader) lastPoint() *core.Point {
	if len(m.LeaderLines) == 0 {
		return nil
	}
	line := m.LeaderLines[len(m.LeaderLines)-1]
	if len(line) == 0 {
		return nil
	}
	return &line[len(line)-1]
}

func (m *MLeader) ensureBlock() *MLeaderBlock {
	if m.Block == nil {
		m.Block = &MLeaderBlock{Scale: core.Point{X: 1, Y: 1, Z: 1}}
	}
	return m.Block
}

func (m *MLeader) Emit(w *core.TagWriter) {
	m.emitCommon(w)
	if m.StyleHandle != "" {
		w.Tag(340, m.StyleHandle)
	}
	w.Int(172, int(m.ContentType))
	if m.DoglegLength != 0 {
		w.Float(41, m.DoglegLength)
	}
	if m.ArrowSize != 0 {
		w.Float(42, m.ArrowSize)
	}
	if m.LandingGap != 0 {
		w.Float(43, m.LandingGap)
	}
	w.Tag(300, "CONTEXT_DATA{")
	for _, line := range m.LeaderLines {
		w.Tag(302, "LEADER{")
		w.Tag(303, "LEADER_LINE{")
		for _, p := range line {
			w.Point3D(10, p)
		}
		w.Tag(305, "}")
		w.Tag(305, "}")
	}
	if m.Text != "" {
		for _, chunk := range splitChunks(EncodeMText(m.Text)) {
			w.Tag(304, chunk)
		}
	}
	if m.TextHeight != 0 {
		w.Float(45, m.TextHeight)
	}
	if b := m.Block; b != nil {
		w.Tag(344, b.Handle)
		w.Point3D(15, b.Location)
		w.Float(16, b.Scale.X)
		w.Float(26, b.Scale.Y)
		w.Float(36, b.Scale.Z)
		if b.Rotation != 0 {
			w.Float(46, b.Rotation)
		}
	}
	w.Tag(301, "}")
}

func (m *MLeader) BBox() (box core.BBox) {
	first := true
	for _, line := range m.LeaderLines {
		for _, p := range line {
			if first {
				box = core.NewBBox(p)
				first = false
			} else {
				box.Extend(p)
			}
		}
	}
	if m.Block != nil {
		if first {
			box = core.NewBBox(m.Block.Location)
		} else {
			box.Extend(m.Block.Location)
		}
	}
	return
}
