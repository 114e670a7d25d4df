package utils

import "github.com/zooyer/zcad/entities"

// Attrs 汇总块引用的属性为标签到值的映射
func Attrs(ins *entities.Insert) map[string]string {
	attrs := make(map[string]string, len(ins.Attribs))
	for _, a := range ins.Attribs {
		attrs[a.Tag] = a.Value
	}
	return attrs
}

// VisibleAttrs 汇总可见属性（过滤不可见标志）
func VisibleAttrs(ins *entities.Insert) map[string]string {
	attrs := make(map[string]string, len(ins.Attribs))
	for _, a := range ins.Attribs {
		if a.Invisible() {
			continue
		}
		attrs[a.Tag] = a.Value
	}
	return attrs
}
