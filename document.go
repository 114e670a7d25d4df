package zcad

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"

	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// Layer 图层表记录
type Layer struct {
	Name     string
	Color    int // 负值表示图层关闭，取绝对值为颜色号
	Linetype string
	Frozen   bool
	Locked   bool
}

// Visible 图层是否可见（未关闭且未冻结）
func (l *Layer) Visible() bool {
	return l.Color >= 0 && !l.Frozen
}

// DimStyle 标注样式表记录
type DimStyle struct {
	Name       string
	Scale      float64 // 组码 40，全局比例
	TextHeight float64 // 组码 140
	ArrowSize  float64 // 组码 41
	ExtLineExt float64 // 组码 44，尺寸界线超出量
	Precision  int     // 组码 271，小数位数
}

// Block 块定义：一段可被 INSERT 复用的实体集合
type Block struct {
	Name         string
	Handle       string // 组码 5
	RecordHandle string // 组码 330，所属 BLOCK_RECORD
	Base         core.Point
	Entities     []entities.Entity
	AttDefs      []*entities.AttDef
}

// Anonymous 判断是否为匿名块（*D1 之类的内部块）
func (b *Block) Anonymous() bool {
	return strings.HasPrefix(b.Name, "*")
}

// ImageDef 图像定义对象，持有外部文件路径与像素尺寸
type ImageDef struct {
	Handle       string
	FilePath     string      // 组码 1，文件中记录的路径
	SizePixels   core.Vector // 组码 10/20
	PixelSize    core.Vector // 组码 11/21
	Loaded       bool        // 组码 280
	ResolvedPath string      // 资源定位后的本地路径，定位失败为空
}

// ImageDefReactor 图像与其定义对象之间的反应器
type ImageDefReactor struct {
	Handle       string
	ClassVersion int    // 组码 90
	Owner        string // 组码 330
}

// RasterVars 光栅图像的全局显示参数
type RasterVars struct {
	Handle       string
	ClassVersion int // 组码 90
	Frame        int // 组码 70
	Quality      int // 组码 71
	Units        int // 组码 72
}

// DictEntry 字典中的一个命名条目
type DictEntry struct {
	Name   string
	Handle string
}

// Dictionary 命名对象字典
type Dictionary struct {
	Handle  string
	Owner   string
	Entries []DictEntry
}

// Get 按名称查找条目句柄
func (d *Dictionary) Get(name string) (string, bool) {
	for _, e := range d.Entries {
		if strings.EqualFold(e.Name, name) {
			return e.Handle, true
		}
	}
	return "", false
}

// Document 一份完整的图纸：实体、块定义、表与对象字典。
// 所有跨实体状态都挂在文档上，同一进程可以并存多份文档。
type Document struct {
	layers        map[string]*Layer
	dimStyles     map[string]*DimStyle
	blocks        map[string]*Block
	blockByHandle map[string]string
	entityList    []entities.Entity
	byHandle      map[string]any
	imageDefs     map[string]*ImageDef
	reactors      map[string]*ImageDefReactor
	rasterVars    *RasterVars
	dicts         map[string]*Dictionary
	rootDict      *Dictionary
	nextHandle    int
	diags         *core.Diagnostics
}

// NewDocument 创建空文档，sink 可为 nil
func NewDocument(sink core.Sink) *Document {
	return &Document{
		layers:        map[string]*Layer{"0": {Name: "0", Color: 7, Linetype: "Continuous"}},
		dimStyles:     map[string]*DimStyle{},
		blocks:        map[string]*Block{},
		blockByHandle: map[string]string{},
		byHandle:      map[string]any{},
		imageDefs:     map[string]*ImageDef{},
		reactors:      map[string]*ImageDefReactor{},
		dicts:         map[string]*Dictionary{},
		diags:         core.NewDiagnostics(sink),
	}
}

// Diagnostics 返回加载与解析过程中累积的非致命问题
func (d *Document) Diagnostics() []core.Diagnostic {
	return d.diags.Records()
}

// HasWarnings 判断是否存在警告级以上的诊断
func (d *Document) HasWarnings() bool {
	return d.diags.HasWarnings()
}

// Report 追加一条诊断，供加载之后的处理阶段（如资源定位）使用
func (d *Document) Report(stage string, severity core.Severity, message string) {
	d.diags.Report(stage, severity, message)
}

// registerHandle 登记句柄，重复即致命
func (d *Document) registerHandle(handle string, obj any) error {
	if handle == "" {
		return nil
	}
	if _, ok := d.byHandle[handle]; ok {
		return fmt.Errorf("%w: %s", core.ErrDuplicateHandle, handle)
	}
	d.byHandle[handle] = obj
	// 回读自己写出的文件时，合成句柄计数器要跳过已占用的编号
	if strings.HasPrefix(handle, "*") {
		if n, err := strconv.Atoi(handle[1:]); err == nil && n > d.nextHandle {
			d.nextHandle = n
		}
	}
	return nil
}

// newHandle 为缺少句柄的对象生成文档内唯一的合成句柄。
// 文件句柄为十六进制串，以 * 开头的合成句柄不会与之冲突。
func (d *Document) newHandle() string {
	d.nextHandle++
	return fmt.Sprintf("*%d", d.nextHandle)
}

// AddEntity 登记一个顶层实体
func (d *Document) AddEntity(e entities.Entity) error {
	if e.Handle() == "" {
		e.SetHandle(d.newHandle())
	}
	if err := d.registerHandle(e.Handle(), e); err != nil {
		return err
	}
	d.ensureLayer(e.Layer())
	d.entityList = append(d.entityList, e)
	return nil
}

func (d *Document) ensureLayer(name string) {
	if name == "" {
		return
	}
	if _, ok := d.layers[name]; !ok {
		d.layers[name] = &Layer{Name: name, Color: 7, Linetype: "Continuous"}
	}
}

// AddLayer 登记图层，同名覆盖
func (d *Document) AddLayer(layer *Layer) {
	d.layers[layer.Name] = layer
}

// Layer 按名称取图层
func (d *Document) Layer(name string) (*Layer, bool) {
	layer, ok := d.layers[name]
	return layer, ok
}

// Layers 返回全部图层，按名称排序
func (d *Document) Layers() []*Layer {
	names := make([]string, 0, len(d.layers))
	for name := range d.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	layers := make([]*Layer, len(names))
	for i, name := range names {
		layers[i] = d.layers[name]
	}
	return layers
}

// AddDimStyle 登记标注样式
func (d *Document) AddDimStyle(style *DimStyle) {
	d.dimStyles[strings.ToUpper(style.Name)] = style
}

// DimStyle 按名称取标注样式（忽略大小写）
func (d *Document) DimStyle(name string) (*DimStyle, bool) {
	style, ok := d.dimStyles[strings.ToUpper(name)]
	return style, ok
}

// DimStyles 返回全部标注样式，按名称排序
func (d *Document) DimStyles() []*DimStyle {
	names := make([]string, 0, len(d.dimStyles))
	for name := range d.dimStyles {
		names = append(names, name)
	}
	sort.Strings(names)
	styles := make([]*DimStyle, len(names))
	for i, name := range names {
		styles[i] = d.dimStyles[name]
	}
	return styles
}

// AddBlockDefinition 登记块定义，块名统一大写
func (d *Document) AddBlockDefinition(block *Block) error {
	name := strings.ToUpper(strings.TrimSpace(block.Name))
	if name == "" {
		return fmt.Errorf("块定义缺少名称")
	}
	block.Name = name
	if err := d.registerHandle(block.Handle, block); err != nil {
		return err
	}
	d.blocks[name] = block
	if block.Handle != "" {
		d.blockByHandle[block.Handle] = name
	}
	return nil
}

// Block 按名称取块定义
func (d *Document) Block(name string) (*Block, bool) {
	block, ok := d.blocks[strings.ToUpper(strings.TrimSpace(name))]
	return block, ok
}

// Blocks 返回全部块定义，按名称排序
func (d *Document) Blocks() []*Block {
	names := make([]string, 0, len(d.blocks))
	for name := range d.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	blocks := make([]*Block, len(names))
	for i, name := range names {
		blocks[i] = d.blocks[name]
	}
	return blocks
}

// LookupByHandle 按句柄查找任意已登记对象
func (d *Document) LookupByHandle(handle string) (any, bool) {
	obj, ok := d.byHandle[handle]
	return obj, ok
}

// Entities 返回全部顶层实体（文件顺序）
func (d *Document) Entities() []entities.Entity {
	return d.entityList
}

// EntitiesByKind 按类型名遍历顶层实体，可重复 range
func (d *Document) EntitiesByKind(kind string) iter.Seq[entities.Entity] {
	kind = strings.ToUpper(strings.TrimSpace(kind))
	return func(yield func(entities.Entity) bool) {
		for _, e := range d.entityList {
			if e.Type() == kind {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// ImageDef 按句柄取图像定义
func (d *Document) ImageDef(handle string) (*ImageDef, bool) {
	def, ok := d.imageDefs[handle]
	return def, ok
}

// ImageDefs 返回全部图像定义，按句柄排序
func (d *Document) ImageDefs() []*ImageDef {
	handles := make([]string, 0, len(d.imageDefs))
	for h := range d.imageDefs {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	defs := make([]*ImageDef, len(handles))
	for i, h := range handles {
		defs[i] = d.imageDefs[h]
	}
	return defs
}

// RasterVariables 返回全局光栅参数，可能为 nil
func (d *Document) RasterVariables() *RasterVars {
	return d.rasterVars
}

// Dictionary 按名称查根字典下的命名字典
func (d *Document) Dictionary(name string) (*Dictionary, bool) {
	if d.rootDict == nil {
		return nil, false
	}
	handle, ok := d.rootDict.Get(name)
	if !ok {
		return nil, false
	}
	dict, ok := d.dicts[handle]
	return dict, ok
}

// ResolveReferences 两遍加载的第二遍：块引用按名连接，属性默认值
// 回填，多重引线的块内容由句柄换算为块名。全部块定义登记完成后
// 调用。存在悬空引用时返回 *core.UnresolvedBlockError，文档其余
// 部分仍然可用。
func (d *Document) ResolveReferences() error {
	missing := map[string]bool{}

	var resolveInsert func(ins *entities.Insert)
	resolveInsert = func(ins *entities.Insert) {
		block, ok := d.Block(ins.BlockName)
		if !ok {
			missing[ins.BlockName] = true
			return
		}
		// 块定义里的属性模板向引用回填默认值
		for _, def := range block.AttDefs {
			if def.Tag == "" || ins.HasAttr(def.Tag) {
				continue
			}
			attrib := def.Instantiate()
			attrib.SetHandle(d.newHandle())
			ins.Attribs = append(ins.Attribs, attrib)
		}
	}

	walk := func(list []entities.Entity) {
		for _, e := range list {
			switch v := e.(type) {
			case *entities.Insert:
				resolveInsert(v)
			case *entities.MLeader:
				if v.Block == nil || v.Block.Handle == "" {
					continue
				}
				if name, ok := d.blockByHandle[v.Block.Handle]; ok {
					v.Block.Name = name
				} else {
					d.diags.Report("resolve", core.SeverityWarning,
						fmt.Sprintf("多重引线的块内容句柄 %s 没有对应的块定义", v.Block.Handle))
				}
			}
		}
	}

	walk(d.entityList)
	for _, block := range d.Blocks() {
		walk(block.Entities)
	}

	if len(missing) > 0 {
		err := &core.UnresolvedBlockError{}
		for name := range missing {
			err.Names = append(err.Names, name)
		}
		sort.Strings(err.Names)
		return err
	}
	return nil
}

// Bounds 返回全部顶层实体的总包围盒
func (d *Document) Bounds() (box core.BBox, ok bool) {
	for _, e := range d.entityList {
		b := e.BBox()
		if !ok {
			box, ok = b, true
			continue
		}
		box.Merge(b)
	}
	return
}
