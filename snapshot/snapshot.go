// Package snapshot 把文档降为规范的、确定性的 JSON 形态，
// 用于金样对比测试：同一文档多次捕获字节一致，不同文档的
// 差异按路径逐条列出。
package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/entities"
)

// Entity 规范形态中的一个实体：类型名加具体字段
type Entity struct {
	Kind string          `json:"kind"`
	Data entities.Entity `json:"data"`
}

// Block 规范形态中的块定义
type Block struct {
	Name     string             `json:"name"`
	Handle   string             `json:"handle,omitempty"`
	Base     core.Point         `json:"base"`
	Entities []Entity           `json:"entities,omitempty"`
	AttDefs  []*entities.AttDef `json:"att_defs,omitempty"`
}

// Snapshot 文档的规范形态
type Snapshot struct {
	Layers      []*zcad.Layer    `json:"layers"`
	DimStyles   []*zcad.DimStyle `json:"dim_styles,omitempty"`
	Blocks      []Block          `json:"blocks,omitempty"`
	Entities    []Entity         `json:"entities"`
	ImageDefs   []*zcad.ImageDef `json:"image_defs,omitempty"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
}

// Capture 捕获文档的规范形态。图层、块与图像定义按名称/句柄
// 排序，实体保持文件顺序。
func Capture(doc *zcad.Document) *Snapshot {
	snap := &Snapshot{
		Layers:    doc.Layers(),
		DimStyles: doc.DimStyles(),
		ImageDefs: doc.ImageDefs(),
	}
	for _, block := range doc.Blocks() {
		b := Block{
			Name:    block.Name,
			Handle:  block.Handle,
			Base:    block.Base,
			AttDefs: block.AttDefs,
		}
		for _, e := range block.Entities {
			b.Entities = append(b.Entities, Entity{Kind: e.Type(), Data: e})
		}
		snap.Blocks = append(snap.Blocks, b)
	}
	for _, e := range doc.Entities() {
		snap.Entities = append(snap.Entities, Entity{Kind: e.Type(), Data: e})
	}
	for _, diag := range doc.Diagnostics() {
		snap.Diagnostics = append(snap.Diagnostics,
			fmt.Sprintf("[%s] %s: %s", diag.Severity, diag.Stage, diag.Message))
	}
	return snap
}

// Encode 捕获并编码为带缩进的 JSON
func Encode(doc *zcad.Document) ([]byte, error) {
	data, err := json.MarshalIndent(Capture(doc), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Diff 比较两份规范形态，返回所有差异路径（每条一行）。
// 完全一致返回 nil。
func Diff(want, got []byte) []string {
	var a, b any
	if err := json.Unmarshal(want, &a); err != nil {
		return []string{"want: 不是合法的 JSON: " + err.Error()}
	}
	if err := json.Unmarshal(got, &b); err != nil {
		return []string{"got: 不是合法的 JSON: " + err.Error()}
	}
	var diffs []string
	walk("$", a, b, &diffs)
	return diffs
}

func walk(path string, a, b any, out *[]string) {
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok {
			*out = append(*out, fmt.Sprintf("%s: 类型不同 (%T != %T)", path, a, b))
			return
		}
		keys := map[string]bool{}
		for k := range va {
			keys[k] = true
		}
		for k := range vb {
			keys[k] = true
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)
		for _, k := range sorted {
			av, aok := va[k]
			bv, bok := vb[k]
			sub := path + "." + k
			switch {
			case !aok:
				*out = append(*out, fmt.Sprintf("%s: 仅出现在 got 中", sub))
			case !bok:
				*out = append(*out, fmt.Sprintf("%s: 仅出现在 want 中", sub))
			default:
				walk(sub, av, bv, out)
			}
		}
	case []any:
		vb, ok := b.([]any)
		if !ok {
			*out = append(*out, fmt.Sprintf("%s: 类型不同 (%T != %T)", path, a, b))
			return
		}
		if len(va) != len(vb) {
			*out = append(*out, fmt.Sprintf("%s: 长度不同 (%d != %d)", path, len(va), len(vb)))
		}
		n := len(va)
		if len(vb) < n {
			n = len(vb)
		}
		for i := 0; i < n; i++ {
			walk(fmt.Sprintf("%s[%d]", path, i), va[i], vb[i], out)
		}
	default:
		if a != b {
			*out = append(*out, fmt.Sprintf("%s: %v != %v", path, a, b))
		}
	}
}
