package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 致命错误：任意一个出现都会中止整个文档的加载
var (
	// ErrEncoding 表示字节流无法按声明/推断的编码解码
	ErrEncoding = errors.New("encoding error")

	// ErrMalformedRecord 表示组码行后缺少值行等读取层结构损坏
	ErrMalformedRecord = errors.New("malformed record")

	// ErrDuplicateHandle 表示文档内句柄冲突，破坏了交叉引用的唯一性前提
	ErrDuplicateHandle = errors.New("duplicate handle")
)

// UnresolvedBlockError 在引用解析阶段返回，列出所有悬空的块引用。
// 文档本身仍然可用，是否视为致命由调用方决定。
type UnresolvedBlockError struct {
	Names []string
}

func (e *UnresolvedBlockError) Error() string {
	names := append([]string(nil), e.Names...)
	sort.Strings(names)
	return fmt.Sprintf("unresolved block reference: [%s]", strings.Join(names, ", "))
}
