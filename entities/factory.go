package entities

import (
	"strings"

	"github.com/zooyer/zcad/core"
)

// Entity 是一切几何实体的接口。
// Parse 从标签流中消费实体剩余的标签（进入时 LastTag 为类型标签，
// 返回时 LastTag 停在下一个组码 0 标签上）；Emit 为其逆向。
type Entity interface {
	Parse(s *core.Scanner, diag *core.Diagnostics) error
	Emit(w *core.TagWriter)
	Type() string
	Layer() string
	Handle() string
	SetHandle(handle string)
	BBox() core.BBox
}

// BaseEntity 存放所有实体通用的属性（Layer, Color, Handle 等）
type BaseEntity struct {
	TypeName  string
	HandleID  string // 组码 5，文档内唯一
	LayerName string // 组码 8
	Color     int    // 组码 62，256 表示随层
	Linetype  string // 组码 6
}

func (b *BaseEntity) Type() string { return b.TypeName }

func (b *BaseEntity) Layer() string { return b.LayerName }

func (b *BaseEntity) Handle() string { return b.HandleID }

func (b *BaseEntity) SetHandle(handle string) { b.HandleID = handle }

// parseCommon 消费所有实体共有的组码，返回是否已处理
func (b *BaseEntity) parseCommon(t core.Tag) bool {
	switch t.Code {
	case 5:
		b.HandleID = t.AsString()
	case 8:
		b.LayerName = t.AsString()
	case 62:
		b.Color = t.AsInt()
	case 6:
		b.Linetype = t.AsString()
	default:
		return false
	}
	return true
}

// emitCommon 写出类型标签与共有属性，Emit 实现以此开头
func (b *BaseEntity) emitCommon(w *core.TagWriter) {
	w.Tag(0, b.TypeName)
	if b.HandleID != "" {
		w.Tag(5, b.HandleID)
	}
	w.Tag(8, b.LayerName)
	if b.Color != 256 {
		w.Int(62, b.Color)
	}
	if b.Linetype != "" {
		w.Tag(6, b.Linetype)
	}
}

func newBase(typeName string) BaseEntity {
	return BaseEntity{TypeName: typeName, LayerName: "0", Color: 256}
}

// EntityFactory 定义了如何创建一个空实体
type EntityFactory func() Entity

var registry = map[string]EntityFactory{}

// Register 允许以后动态扩展新的实体类型
func Register(typeName string, factory EntityFactory) {
	registry[strings.ToUpper(typeName)] = factory
}

// CreateEntity 根据实体名称生产对应的结构体，未注册返回 nil
func CreateEntity(typeName string) Entity {
	if factory, ok := registry[strings.ToUpper(strings.TrimSpace(typeName))]; ok {
		return factory()
	}
	return nil
}

// skipBody 跳过当前实体剩余的标签，停在下一个组码 0 上。
// 未知实体按不透明片段整体略过，不影响文档其余部分。
func skipBody(s *core.Scanner) {
	for s.Next() {
		if s.LastTag.Code == 0 {
			return
		}
	}
}

// SkipBody 供加载器跳过不支持的实体
func SkipBody(s *core.Scanner) {
	skipBody(s)
}
