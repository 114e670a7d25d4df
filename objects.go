package zcad

import (
	"strings"

	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// 根字典中与光栅图像相关的两个命名条目
const (
	ImageDictName = "ACAD_IMAGE_DICT"
	ImageVarsName = "ACAD_IMAGE_VARS"
)

// parseObjects 读取 OBJECTS 段：命名字典、图像定义、反应器与
// 全局光栅参数。按约定第一个 DICTIONARY 是根字典。
func (d *Document) parseObjects(s *core.Scanner) error {
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
		var err error
		switch strings.ToUpper(t.AsString()) {
		case "ENDSEC":
			return nil
		case "DICTIONARY":
			err = d.parseDictionary(s)
		case "IMAGEDEF":
			err = d.parseImageDef(s)
		case "IMAGEDEF_REACTOR":
			err = d.parseImageDefReactor(s)
		case "RASTERVARIABLES":
			err = d.parseRasterVars(s)
		default:
			entities.SkipBody(s)
		}
		if err != nil {
			return err
		}
	}
	return s.Err()
}

func (d *Document) parseDictionary(s *core.Scanner) error {
	dict := &Dictionary{}
	var pending string
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 5:
			dict.Handle = t.AsString()
		case 330:
			dict.Owner = t.AsString()
		case 3:
			pending = t.AsString()
		case 350, 360:
			if pending != "" {
				dict.Entries = append(dict.Entries, DictEntry{Name: pending, Handle: t.AsString()})
				pending = ""
			}
		}
	}
	if err := d.registerHandle(dict.Handle, dict); err != nil {
		return err
	}
	if dict.Handle != "" {
		d.dicts[dict.Handle] = dict
	}
	if d.rootDict == nil {
		d.rootDict = dict
	}
	return s.Err()
}

func (d *Document) parseImageDef(s *core.Scanner) error {
	def := &ImageDef{}
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 5:
			def.Handle = t.AsString()
		case 1:
			def.FilePath = t.AsString()
		case 10:
			def.SizePixels.X = t.AsFloat()
		case 20:
			def.SizePixels.Y = t.AsFloat()
		case 11:
			def.PixelSize.X = t.AsFloat()
		case 21:
			def.PixelSize.Y = t.AsFloat()
		case 280:
			def.Loaded = t.AsInt() != 0
		}
	}
	if err := d.registerHandle(def.Handle, def); err != nil {
		return err
	}
	if def.Handle != "" {
		d.imageDefs[def.Handle] = def
	}
	return s.Err()
}

func (d *Document) parseImageDefReactor(s *core.Scanner) error {
	reactor := &ImageDefReactor{}
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 5:
			reactor.Handle = t.AsString()
		case 90:
			reactor.ClassVersion = t.AsInt()
		case 330:
			reactor.Owner = t.AsString()
		}
	}
	if err := d.registerHandle(reactor.Handle, reactor); err != nil {
		return err
	}
	if reactor.Handle != "" {
		d.reactors[reactor.Handle] = reactor
	}
	return s.Err()
}

func (d *Document) parseRasterVars(s *core.Scanner) error {
	vars := &RasterVars{}
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 5:
			vars.Handle = t.AsString()
		case 90:
			vars.ClassVersion = t.AsInt()
		case 70:
			vars.Frame = t.AsInt()
		case 71:
			vars.Quality = t.AsInt()
		case 72:
			vars.Units = t.AsInt()
		}
	}
	if err := d.registerHandle(vars.Handle, vars); err != nil {
		return err
	}
	d.rasterVars = vars
	return s.Err()
}
