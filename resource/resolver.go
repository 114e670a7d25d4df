package resource

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/core"
)

// Resolver 把文件中记录的资源路径换算为本地可用路径。
// 图纸常在别的机器上保存，记录的多是那台机器的绝对路径，
// 因此除原始路径外还要按基准目录与搜索目录逐个尝试文件名。
// 结果带缓存：同一声明路径只探测一次，之后的查询结果不变。
type Resolver struct {
	roots []string

	mu    sync.Mutex
	cache map[string]string // 声明路径 → 本地路径，空串表示未找到

	stat func(string) bool
	log  zerolog.Logger
}

// NewResolver 创建定位器。baseDir 通常是图纸所在目录，永远第一个
// 尝试；roots 按顺序随后；ZCAD_IMAGE_ROOTS 环境变量的目录排最后。
func NewResolver(baseDir string, roots ...string) *Resolver {
	all := make([]string, 0, len(roots)+2)
	if baseDir != "" {
		all = append(all, baseDir)
	}
	all = append(all, roots...)
	if env := os.Getenv(EnvImageRoots); env != "" {
		all = append(all, filepath.SplitList(env)...)
	}

	seen := map[string]bool{}
	deduped := all[:0]
	for _, root := range all {
		if root == "" || seen[root] {
			continue
		}
		seen[root] = true
		deduped = append(deduped, root)
	}

	return &Resolver{
		roots: deduped,
		cache: map[string]string{},
		stat: func(path string) bool {
			info, err := os.Stat(path)
			return err == nil && !info.IsDir()
		},
		log: zerolog.Nop(),
	}
}

// WithLogger 替换日志器，返回自身便于链式调用
func (r *Resolver) WithLogger(log zerolog.Logger) *Resolver {
	r.log = log
	return r
}

// Roots 返回生效的搜索目录（按尝试顺序）
func (r *Resolver) Roots() []string {
	return r.roots
}

// Resolve 定位一个声明路径，返回本地路径与是否命中
func (r *Resolver) Resolve(declared string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if found, ok := r.cache[declared]; ok {
		return found, found != ""
	}

	found := r.probe(declared)
	r.cache[declared] = found
	if found == "" {
		r.log.Debug().Str("declared", declared).Msg("资源未找到")
		return "", false
	}
	r.log.Debug().Str("declared", declared).Str("resolved", found).Msg("资源已定位")
	return found, true
}

func (r *Resolver) probe(declared string) string {
	// 文件里的路径可能来自 Windows，统一分隔符后取文件名
	normalized := strings.ReplaceAll(declared, `\`, "/")
	base := filepath.Base(filepath.FromSlash(normalized))

	// 1. 原始路径本身可用
	if r.stat(declared) {
		return declared
	}
	// 2. 各搜索目录 + 相对声明路径
	if !filepath.IsAbs(normalized) {
		for _, root := range r.roots {
			candidate := filepath.Join(root, filepath.FromSlash(normalized))
			if r.stat(candidate) {
				return candidate
			}
		}
	}
	// 3. 各搜索目录 + 文件名
	for _, root := range r.roots {
		candidate := filepath.Join(root, base)
		if r.stat(candidate) {
			return candidate
		}
	}
	return ""
}

// ResolveImages 为文档中每个图像定义填充本地路径，
// 未找到的记录 warning 诊断并保持 ResolvedPath 为空。
func ResolveImages(doc *zcad.Document, r *Resolver) {
	for _, def := range doc.ImageDefs() {
		if def.FilePath == "" {
			continue
		}
		path, ok := r.Resolve(def.FilePath)
		if !ok {
			doc.Report("resource", core.SeverityWarning, "图像文件未找到: "+def.FilePath)
			continue
		}
		def.ResolvedPath = path
	}
}
