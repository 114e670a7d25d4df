package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zooyer/zcad"
)

// UpdateEnv 置为非空时 Assert 直接重写金样文件
const UpdateEnv = "ZCAD_UPDATE_SNAPSHOTS"

// Assert 金样断言：文档的规范形态必须与 goldenPath 的内容一致。
// 金样不存在（或设置了更新环境变量）时写入当前形态；不一致时把
// 实际形态落盘为 .actual 并逐条报告差异。
func Assert(t *testing.T, goldenPath string, doc *zcad.Document) {
	t.Helper()

	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("编码规范形态失败: %v", err)
	}

	want, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) || os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("创建金样目录失败: %v", err)
		}
		if err := os.WriteFile(goldenPath, got, 0o644); err != nil {
			t.Fatalf("写入金样失败: %v", err)
		}
		t.Logf("金样已写入: %s", goldenPath)
		return
	}
	if err != nil {
		t.Fatalf("读取金样失败: %v", err)
	}

	if bytes.Equal(want, got) {
		return
	}
	actualPath := goldenPath + ".actual"
	_ = os.WriteFile(actualPath, got, 0o644)
	diffs := Diff(want, got)
	t.Errorf("规范形态与金样不一致（实际形态见 %s）:\n%s",
		actualPath, strings.Join(diffs, "\n"))
}
