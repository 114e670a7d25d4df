package zcad

import (
	"strings"

	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// parseTables 读取 TABLES 段，目前关心 LAYER 与 DIMSTYLE 两张表
func (d *Document) parseTables(s *core.Scanner) error {
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
		case "LAYER":
			d.parseLayerRecord(s)
		case "DIMSTYLE":
			d.parseDimStyleRecord(s)
		default:
			// TABLE/ENDTAB 等包装行，跳到下一条记录
			entities.SkipBody(s)
		}
	}
	return s.Err()
}

// parseLayerRecord 读取一条图层表记录
func (d *Document) parseLayerRecord(s *core.Scanner) {
	layer := &Layer{Color: 7, Linetype: "Continuous"}
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 2:
			layer.Name = t.AsString()
		case 62:
			layer.Color = t.AsInt()
		case 6:
			layer.Linetype = t.AsString()
		case 70:
			layer.Frozen = t.AsInt()&1 != 0
			layer.Locked = t.AsInt()&4 != 0
		}
	}
	if layer.Name != "" {
		d.AddLayer(layer)
	}
}

// parseDimStyleRecord 读取一条标注样式表记录
func (d *Document) parseDimStyleRecord(s *core.Scanner) {
	style := &DimStyle{Scale: 1}
	for s.Next() {
		t := s.LastTag
		if t.Code == 0 {
			break
		}
		switch t.Code {
		case 2:
			style.Name = t.AsString()
		case 40:
			style.Scale = t.AsFloat()
		case 140:
			style.TextHeight = t.AsFloat()
		case 41:
			style.ArrowSize = t.AsFloat()
		case 44:
			style.ExtLineExt = t.AsFloat()
		case 271:
			style.Precision = t.AsInt()
		}
	}
	if style.Name != "" {
		d.AddDimStyle(style)
	}
}
