package zcad

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// Open 打开文件并加载为文档
func Open(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load 从数据流加载文档
func Load(r io.Reader) (*Document, error) {
	return LoadWith(r, nil)
}

// LoadWith 从数据流加载文档，非致命问题实时转发给 sink。
// 致命错误（编码、记录结构、句柄冲突）返回 nil 文档；悬空块引用
// 返回已加载的文档和 *core.UnresolvedBlockError，由调用方决定取舍。
func LoadWith(r io.Reader, sink core.Sink) (*Document, error) {
	doc := NewDocument(sink)
	s := core.NewScanner(r)
	if err := doc.parse(s); err != nil {
		return nil, err
	}
	if err := doc.ResolveReferences(); err != nil {
		return doc, err
	}
	return doc, nil
}

// parse 第一遍：逐段读取，块定义与实体全部登记完再做引用解析
func (d *Document) parse(s *core.Scanner) error {
	for s.Next() {
		t := s.LastTag
		if t.IsType("EOF") {
			break
		}
		if !t.IsType("SECTION") {
			continue
		}
		if !s.Next() || s.LastTag.Code != 2 {
			if err := s.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w: SECTION 之后缺少段名（第 %d 行）", core.ErrMalformedRecord, s.Line())
		}
		var err error
		switch strings.ToUpper(s.LastTag.AsString()) {
		case "TABLES":
			err = d.parseTables(s)
		case "BLOCKS":
			err = d.parseBlocks(s)
		case "ENTITIES":
			err = d.parseEntities(s)
		case "OBJECTS":
			err = d.parseObjects(s)
		default:
			skipSection(s)
		}
		if err != nil {
			return err
		}
	}
	return s.Err()
}

// skipSection 跳到当前段的 ENDSEC
func skipSection(s *core.Scanner) {
	for s.Next() {
		if s.LastTag.IsType("ENDSEC") {
			return
		}
	}
}

// parseEntities 读取 ENTITIES 段的顶层实体
func (d *Document) parseEntities(s *core.Scanner) error {
	if !s.Next() {
		return s.Err()
	}
	for s.Err() == nil {
		t := s.LastTag
		if t.Code != 0 {
			if !s.Next() {
				break
			}
			continue
		}
		name := strings.ToUpper(t.AsString())
		if name == "ENDSEC" {
			return nil
		}
		list, err := d.parseEntity(s, name)
		if err != nil {
			return err
		}
		for _, e := range list {
			if err := d.AddEntity(e); err != nil {
				return err
			}
		}
	}
	return s.Err()
}

// parseEntity 按类型名解析一个实体。未注册的类型与自身解析失败的
// 实体都只产生诊断并跳过；返回的错误一定是致命的。
func (d *Document) parseEntity(s *core.Scanner, name string) ([]entities.Entity, error) {
	if name == "POLYLINE" {
		return entities.ParsePolyline(s, d.diags)
	}
	e := entities.CreateEntity(name)
	if e == nil {
		d.diags.Report("entities", core.SeverityWarning,
			fmt.Sprintf("不支持的实体类型 %s（第 %d 行），已跳过", name, s.Line()))
		entities.SkipBody(s)
		return nil, nil
	}
	if err := e.Parse(s, d.diags); err != nil {
		if serr := s.Err(); serr != nil {
			return nil, serr
		}
		// 实体级失败不影响文档其余部分
		d.diags.Report("entities", core.SeverityWarning, err.Error())
		return nil, nil
	}
	return []entities.Entity{e}, nil
}

// parseBlocks 读取 BLOCKS 段的块定义
func (d *Document) parseBlocks(s *core.Scanner) error {
	if !s.Next() {
		return s.Err()
	}
	for s.Err() == nil {
		t := s.LastTag
		if t.Code != 0 {
			if !s.Next() {
				break
			}
			continue
		}
		switch strings.ToUpper(t.AsString()) {
		case "ENDSEC":
			return nil
		case "BLOCK":
			if err := d.parseBlock(s); err != nil {
				return err
			}
		default:
			entities.SkipBody(s)
		}
	}
	return s.Err()
}

// parseBlock 读取一个块定义：头部、内部实体、ENDBLK
func (d *Document) parseBlock(s *core.Scanner) error {
	block := &Block{}
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 2:
			block.Name = t.AsString()
		case 5:
			block.Handle = t.AsString()
		case 330:
			block.RecordHandle = t.AsString()
		case 10:
			block.Base.X = t.AsFloat()
		case 20:
			block.Base.Y = t.AsFloat()
		case 30:
			block.Base.Z = t.AsFloat()
		}
	}

	for s.Err() == nil {
		t := s.LastTag
		if t.Code != 0 {
			break
		}
		name := strings.ToUpper(t.AsString())
		if name == "ENDBLK" {
			entities.SkipBody(s)
			break
		}
		list, err := d.parseEntity(s, name)
		if err != nil {
			return err
		}
		for _, e := range list {
			if e.Handle() == "" {
				e.SetHandle(d.newHandle())
			}
			if err := d.registerHandle(e.Handle(), e); err != nil {
				return err
			}
			if def, ok := e.(*entities.AttDef); ok {
				block.AttDefs = append(block.AttDefs, def)
				continue
			}
			block.Entities = append(block.Entities, e)
		}
	}
	if err := s.Err(); err != nil {
		return err
	}
	return d.AddBlockDefinition(block)
}
