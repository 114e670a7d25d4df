package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Scanner 按行扫描组码流，每次 Next 产出一对 (组码, 值)。
// 扫描器只负责断行与编码，不理解任何实体语义。
type Scanner struct {
	source  string
	offset  int
	line    int
	LastTag Tag
	err     error
}

// NewScanner 读入全部字节并做编码归一化：去除 BOM，优先按 UTF-8
// 解释，非法 UTF-8 时回退 GB18030，仍失败则报 ErrEncoding。
func NewScanner(r io.Reader) *Scanner {
	var s Scanner
	data, err := io.ReadAll(r)
	if err != nil {
		s.err = fmt.Errorf("%w: %v", ErrEncoding, err)
		return &s
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
		if err != nil {
			s.err = fmt.Errorf("%w: 输入既不是合法的 UTF-8，也无法按 GB18030 解码", ErrEncoding)
			return &s
		}
		data = decoded
	}
	s.source = string(data)
	return &s
}

// NewStringScanner 从内存字符串构建扫描器，测试与回写校验用
func NewStringScanner(source string) *Scanner {
	return &Scanner{source: source}
}

// Next 读取下一对标签，返回 false 表示流结束或出错（见 Err）
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	// 1. 读取组码行，空行跳过。流耗尽后 LastTag 置为哨兵值，
	// 避免上层循环误用残留的旧标签。
	var codeStr string
	for {
		line, ok := s.nextLine()
		if !ok {
			s.LastTag = Tag{Code: -1}
			return false
		}
		codeStr = strings.TrimSpace(line)
		if codeStr != "" {
			break
		}
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		s.err = fmt.Errorf("%w: 第 %d 行的组码 %q 无法解析为整数", ErrMalformedRecord, s.line, codeStr)
		return false
	}

	// 2. 读取值行，组码行之后必须存在
	value, ok := s.nextLine()
	if !ok {
		s.err = fmt.Errorf("%w: 文件在第 %d 行结束，缺少与组码对应的值行", ErrMalformedRecord, s.line)
		return false
	}

	// 保留值开头的空格（DXF 规范要求），仅去掉行尾回车
	s.LastTag = Tag{Code: code, Value: strings.TrimRight(value, "\r")}
	return true
}

func (s *Scanner) nextLine() (string, bool) {
	if s.offset >= len(s.source) {
		return "", false
	}
	end := strings.IndexByte(s.source[s.offset:], '\n')
	var line string
	if end < 0 {
		line = s.source[s.offset:]
		s.offset = len(s.source)
	} else {
		line = s.source[s.offset : s.offset+end]
		s.offset += end + 1
	}
	s.line++
	return line, true
}

// Line 返回最近一次读取的行号，用于错误定位
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Err() error {
	return s.err
}
