package core

import "github.com/rs/zerolog"

// Severity 诊断级别
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityCriticalInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityCriticalInfo:
		return "critical-info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Sink 接收核心产生的诊断信息。核心不做任何 UI 决策，
// 如何呈现（对话框还是日志）由调用方决定。
type Sink func(stage string, severity Severity, message string)

// Diagnostic 一条已采集的诊断记录
type Diagnostic struct {
	Stage    string
	Severity Severity
	Message  string
}

// Diagnostics 非致命问题的收集器，加载过程中累积，随文档一并返回
type Diagnostics struct {
	records []Diagnostic
	sink    Sink
}

func NewDiagnostics(sink Sink) *Diagnostics {
	return &Diagnostics{sink: sink}
}

// Report 记录一条诊断并转发给外部 Sink（如果有）
func (d *Diagnostics) Report(stage string, severity Severity, message string) {
	if d == nil {
		return
	}
	d.records = append(d.records, Diagnostic{Stage: stage, Severity: severity, Message: message})
	if d.sink != nil {
		d.sink(stage, severity, message)
	}
}

// Records 返回累积的诊断列表（按产生顺序）
func (d *Diagnostics) Records() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.records
}

// HasWarnings 判断是否存在 Warning 及以上级别的诊断
func (d *Diagnostics) HasWarnings() bool {
	for _, r := range d.Records() {
		if r.Severity >= SeverityWarning {
			return true
		}
	}
	return false
}

// ZerologSink 将诊断路由到 zerolog 日志
func ZerologSink(logger zerolog.Logger) Sink {
	return func(stage string, severity Severity, message string) {
		var event *zerolog.Event
		switch severity {
		case SeverityError:
			event = logger.Error()
		case SeverityWarning:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		event.Str("stage", stage).Msg(message)
	}
}
