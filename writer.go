package zcad

import (
	"io"
	"os"
	"sort"

	"github.com/zooyer/zcad/core"
)

// Save 以确定的顺序写出整份文档：表（图层、标注样式）、块定义、
// 实体、对象字典。同一文档无论写多少次，字节都一致；写出再读回
// 得到等价的文档。
func (d *Document) Save(w io.Writer) error {
	tw := core.NewTagWriter(w)
	d.emitTables(tw)
	d.emitBlocks(tw)
	d.emitEntities(tw)
	d.emitObjects(tw)
	tw.Tag(0, "EOF")
	return tw.Flush()
}

// SaveFile 写出到文件
func (d *Document) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.Save(f)
}

func (d *Document) emitTables(w *core.TagWriter) {
	w.Tag(0, "SECTION")
	w.Tag(2, "TABLES")

	w.Tag(0, "TABLE")
	w.Tag(2, "LAYER")
	for _, layer := range d.Layers() {
		w.Tag(0, "LAYER")
		w.Tag(2, layer.Name)
		flags := 0
		if layer.Frozen {
			flags |= 1
		}
		if layer.Locked {
			flags |= 4
		}
		w.Int(70, flags)
		w.Int(62, layer.Color)
		w.Tag(6, layer.Linetype)
	}
	w.Tag(0, "ENDTAB")

	if len(d.dimStyles) > 0 {
		w.Tag(0, "TABLE")
		w.Tag(2, "DIMSTYLE")
		for _, style := range d.DimStyles() {
			w.Tag(0, "DIMSTYLE")
			w.Tag(2, style.Name)
			w.Float(40, style.Scale)
			if style.TextHeight != 0 {
				w.Float(140, style.TextHeight)
			}
			if style.ArrowSize != 0 {
				w.Float(41, style.ArrowSize)
			}
			if style.ExtLineExt != 0 {
				w.Float(44, style.ExtLineExt)
			}
			if style.Precision != 0 {
				w.Int(271, style.Precision)
			}
		}
		w.Tag(0, "ENDTAB")
	}

	w.Tag(0, "ENDSEC")
}

func (d *Document) emitBlocks(w *core.TagWriter) {
	if len(d.blocks) == 0 {
		return
	}
	w.Tag(0, "SECTION")
	w.Tag(2, "BLOCKS")
	for _, block := range d.Blocks() {
		w.Tag(0, "BLOCK")
		if block.Handle != "" {
			w.Tag(5, block.Handle)
		}
		if block.RecordHandle != "" {
			w.Tag(330, block.RecordHandle)
		}
		w.Tag(2, block.Name)
		w.Point3D(10, block.Base)
		for _, e := range block.Entities {
			e.Emit(w)
		}
		for _, def := range block.AttDefs {
			def.Emit(w)
		}
		w.Tag(0, "ENDBLK")
	}
	w.Tag(0, "ENDSEC")
}

func (d *Document) emitEntities(w *core.TagWriter) {
	w.Tag(0, "SECTION")
	w.Tag(2, "ENTITIES")
	for _, e := range d.entityList {
		e.Emit(w)
	}
	w.Tag(0, "ENDSEC")
}

func (d *Document) emitObjects(w *core.TagWriter) {
	if d.rootDict == nil && len(d.imageDefs) == 0 && len(d.reactors) == 0 && d.rasterVars == nil {
		return
	}
	w.Tag(0, "SECTION")
	w.Tag(2, "OBJECTS")

	emitDict := func(dict *Dictionary) {
		w.Tag(0, "DICTIONARY")
		if dict.Handle != "" {
			w.Tag(5, dict.Handle)
		}
		if dict.Owner != "" {
			w.Tag(330, dict.Owner)
		}
		for _, entry := range dict.Entries {
			w.Tag(3, entry.Name)
			w.Tag(350, entry.Handle)
		}
	}

	// 根字典先行，其余按句柄排序
	if d.rootDict != nil {
		emitDict(d.rootDict)
	}
	handles := make([]string, 0, len(d.dicts))
	for h := range d.dicts {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	for _, h := range handles {
		if d.rootDict != nil && h == d.rootDict.Handle {
			continue
		}
		emitDict(d.dicts[h])
	}

	for _, def := range d.ImageDefs() {
		w.Tag(0, "IMAGEDEF")
		w.Tag(5, def.Handle)
		w.Tag(1, def.FilePath)
		w.Float(10, def.SizePixels.X)
		w.Float(20, def.SizePixels.Y)
		w.Float(11, def.PixelSize.X)
		w.Float(21, def.PixelSize.Y)
		if def.Loaded {
			w.Int(280, 1)
		} else {
			w.Int(280, 0)
		}
	}

	reactorHandles := make([]string, 0, len(d.reactors))
	for h := range d.reactors {
		reactorHandles = append(reactorHandles, h)
	}
	sort.Strings(reactorHandles)
	for _, h := range reactorHandles {
		reactor := d.reactors[h]
		w.Tag(0, "IMAGEDEF_REACTOR")
		w.Tag(5, reactor.Handle)
		w.Int(90, reactor.ClassVersion)
		if reactor.Owner != "" {
			w.Tag(330, reactor.Owner)
		}
	}

	if vars := d.rasterVars; vars != nil {
		w.Tag(0, "RASTERVARIABLES")
		if vars.Handle != "" {
			w.Tag(5, vars.Handle)
		}
		w.Int(90, vars.ClassVersion)
		w.Int(70, vars.Frame)
		w.Int(71, vars.Quality)
		w.Int(72, vars.Units)
	}

	w.Tag(0, "ENDSEC")
}
