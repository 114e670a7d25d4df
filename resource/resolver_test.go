package resource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/core"
)

// fakeFS 记录每次探测，便于验证顺序与缓存
type fakeFS struct {
	exists map[string]bool
	probes []string
}

func (f *fakeFS) stat(path string) bool {
	f.probes = append(f.probes, filepath.ToSlash(path))
	return f.exists[filepath.ToSlash(path)]
}

func newTestResolver(fs *fakeFS, baseDir string, roots ...string) *Resolver {
	r := NewResolver(baseDir, roots...)
	r.stat = fs.stat
	return r
}

func TestResolveOrderedRoots(t *testing.T) {
	fs := &fakeFS{exists: map[string]bool{
		"/srv/shared/风景.png": true,
	}}
	r := newTestResolver(fs, "/data/dwg", "/srv/shared")

	path, ok := r.Resolve(`C:\IMAGES\风景.png`)
	require.True(t, ok)
	assert.Equal(t, filepath.ToSlash(path), "/srv/shared/风景.png")

	// 基准目录永远第一个尝试
	require.NotEmpty(t, fs.probes)
	assert.Contains(t, fs.probes, "/data/dwg/风景.png")
	base := 0
	shared := 0
	for i, p := range fs.probes {
		if p == "/data/dwg/风景.png" {
			base = i
		}
		if p == "/srv/shared/风景.png" {
			shared = i
		}
	}
	assert.Less(t, base, shared)
}

func TestResolveFirstMatchWins(t *testing.T) {
	fs := &fakeFS{exists: map[string]bool{
		"/a/pic.png": true,
		"/b/pic.png": true,
	}}
	r := newTestResolver(fs, "/a", "/b")

	path, ok := r.Resolve("pic.png")
	require.True(t, ok)
	assert.Equal(t, "/a/pic.png", filepath.ToSlash(path))
}

func TestResolveCacheIdempotent(t *testing.T) {
	fs := &fakeFS{exists: map[string]bool{}}
	r := newTestResolver(fs, "/data")

	_, ok := r.Resolve("missing.png")
	assert.False(t, ok)
	probes := len(fs.probes)
	require.Greater(t, probes, 0)

	// 第二次查询命中缓存，不再探测文件系统
	_, ok = r.Resolve("missing.png")
	assert.False(t, ok)
	assert.Equal(t, probes, len(fs.probes))
}

func TestResolveRelativePath(t *testing.T) {
	fs := &fakeFS{exists: map[string]bool{
		"/data/textures/wood.jpg": true,
	}}
	r := newTestResolver(fs, "/data")

	path, ok := r.Resolve("textures/wood.jpg")
	require.True(t, ok)
	assert.Equal(t, "/data/textures/wood.jpg", filepath.ToSlash(path))
}

func TestResolverDedupsRoots(t *testing.T) {
	r := NewResolver("/data", "/data", "/srv", "", "/srv")
	assert.Equal(t, []string{"/data", "/srv"}, r.Roots())
}

func TestEnvRootsAppended(t *testing.T) {
	t.Setenv(EnvImageRoots, "/env/one"+string(os.PathListSeparator)+"/env/two")
	r := NewResolver("/data")
	roots := r.Roots()
	require.Len(t, roots, 3)
	assert.Equal(t, "/data", roots[0])
	assert.Equal(t, "/env/one", roots[1])
	assert.Equal(t, "/env/two", roots[2])
}

func TestResolveImagesFillsDocument(t *testing.T) {
	src := `0
SECTION
2
OBJECTS
0
IMAGEDEF
5
61
1
pic.png
10
64
20
64
0
IMAGEDEF
5
62
1
lost.png
10
32
20
32
0
ENDSEC
0
EOF
`
	doc, err := zcad.Load(strings.NewReader(src))
	require.NoError(t, err)

	fs := &fakeFS{exists: map[string]bool{"/data/pic.png": true}}
	ResolveImages(doc, newTestResolver(fs, "/data"))

	def, ok := doc.ImageDef("61")
	require.True(t, ok)
	assert.Equal(t, "/data/pic.png", filepath.ToSlash(def.ResolvedPath))

	lost, ok := doc.ImageDef("62")
	require.True(t, ok)
	assert.Empty(t, lost.ResolvedPath)

	// 未找到的资源记入文档诊断
	require.True(t, doc.HasWarnings())
	found := false
	for _, diag := range doc.Diagnostics() {
		if diag.Stage == "resource" && diag.Severity == core.SeverityWarning {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.ImageRoots)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zcad.toml")
	require.NoError(t, os.WriteFile(path, []byte("image_roots = [\"/srv/a\", \"/srv/b\"]\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/srv/a", "/srv/b"}, cfg.ImageRoots)
}
