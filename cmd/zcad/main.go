package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/zooyer/golib/xmath"
	"github.com/zooyer/golib/xos"
	"github.com/zooyer/zcad"
	"github.com/zooyer/zcad/core"
	"github.com/zooyer/zcad/resource"
	"github.com/zooyer/zcad/snapshot"
	"github.com/zooyer/zcad/utils"
)

var (
	log     zerolog.Logger
	verbose bool
	output  string
	picked  bool
)

func main() {
	root := &cobra.Command{
		Use:   "zcad",
		Short: "CAD 图纸的解析、检查与转换工具",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	info := &cobra.Command{
		Use:   "info [文件]",
		Short: "打印图纸概要：图层、块、实体统计与范围",
		RunE:  runInfo,
	}

	check := &cobra.Command{
		Use:   "check [文件]",
		Short: "检查图纸，列出全部诊断，有警告时退出码非零",
		RunE:  runCheck,
	}
	check.Flags().StringVarP(&output, "output", "o", "", "把检查报告追加到指定文件")

	roundtrip := &cobra.Command{
		Use:   "roundtrip [文件]",
		Short: "读入后重新写出，并校验回读结果与原文档一致",
		RunE:  runRoundtrip,
	}
	roundtrip.Flags().StringVarP(&output, "output", "o", "", "写出路径（默认在原文件名后加 .out）")

	snap := &cobra.Command{
		Use:   "snapshot [文件]",
		Short: "导出文档的规范 JSON 形态",
		RunE:  runSnapshot,
	}
	snap.Flags().StringVarP(&output, "output", "o", "", "输出路径（默认标准输出）")

	root.AddCommand(info, check, roundtrip, snap)
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("执行失败")
		if picked {
			xos.PauseExit()
		}
		os.Exit(1)
	}
	if picked {
		xos.PauseExit()
	}
}

// pickFile 未给出参数时弹出文件选择框（双击运行的场景）
func pickFile(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	picked = true
	return zenity.SelectFile(
		zenity.Title("选择图纸文件"),
		zenity.FileFilter{Name: "DXF 图纸", Patterns: []string{"*.dxf"}},
	)
}

// loadDocument 加载文件并完成资源定位，悬空块引用降级为警告
func loadDocument(filename string) (*zcad.Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := zcad.LoadWith(f, core.ZerologSink(log))
	if err != nil {
		if doc == nil {
			return nil, err
		}
		log.Warn().Err(err).Msg("存在悬空的块引用")
	}

	// 图纸旁边的 zcad.toml 可以补充图像搜索目录
	dir := filepath.Dir(filename)
	cfg, err := resource.LoadConfig(filepath.Join(dir, "zcad.toml"))
	if err != nil {
		log.Warn().Err(err).Msg("读取资源配置失败")
	}
	resolver := resource.NewResolver(dir, cfg.ImageRoots...).WithLogger(log)
	resource.ResolveImages(doc, resolver)
	return doc, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename, err := pickFile(args)
	if err != nil {
		return err
	}
	doc, err := loadDocument(filename)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	for _, e := range doc.Entities() {
		counts[e.Type()]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Printf("文件: %s\n", filename)
	fmt.Printf("图层: %d  块定义: %d  实体: %d\n",
		len(doc.Layers()), len(doc.Blocks()), len(doc.Entities()))
	for _, k := range kinds {
		fmt.Printf("  %-12s %d\n", k, counts[k])
	}
	if box, ok := utils.DocumentBBox(doc); ok {
		fmt.Printf("范围: (%g, %g) ~ (%g, %g)\n", box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
	}
	if n := len(doc.Diagnostics()); n > 0 {
		fmt.Printf("诊断: %d 条（zcad check 查看详情）\n", n)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename, err := pickFile(args)
	if err != nil {
		return err
	}
	doc, err := loadDocument(filename)
	if err != nil {
		return err
	}

	var report bytes.Buffer
	fmt.Fprintf(&report, "== %s (%s)\n", filename, time.Now().Format(time.DateTime))
	for _, diag := range doc.Diagnostics() {
		fmt.Fprintf(&report, "[%s] %s: %s\n", diag.Severity, diag.Stage, diag.Message)
	}
	if len(doc.Diagnostics()) == 0 {
		fmt.Fprintln(&report, "无诊断")
	}
	fmt.Print(report.String())

	if output != "" {
		if err := xos.AppendFile(output, report.Bytes(), 0o644); err != nil {
			return err
		}
		log.Info().Str("output", output).Msg("报告已追加")
	}
	if doc.HasWarnings() {
		return fmt.Errorf("共 %d 条诊断", len(doc.Diagnostics()))
	}
	return nil
}

func runRoundtrip(cmd *cobra.Command, args []string) error {
	filename, err := pickFile(args)
	if err != nil {
		return err
	}
	doc, err := loadDocument(filename)
	if err != nil {
		return err
	}

	out := output
	if out == "" {
		out = filename + ".out"
	}
	if err := doc.SaveFile(out); err != nil {
		return err
	}
	log.Info().Str("output", out).Msg("已写出")

	// 回读校验：规范形态一致、范围一致
	reloaded, err := zcad.Open(out)
	if err != nil {
		return fmt.Errorf("回读失败: %w", err)
	}
	want, err := snapshot.Encode(doc)
	if err != nil {
		return err
	}
	got, err := snapshot.Encode(reloaded)
	if err != nil {
		return err
	}
	diffs := stripDiagnosticDiffs(snapshot.Diff(want, got))
	if len(diffs) > 0 {
		return fmt.Errorf("回读结果与原文档不一致:\n%s", strings.Join(diffs, "\n"))
	}
	if a, ok := utils.DocumentBBox(doc); ok {
		if b, ok := utils.DocumentBBox(reloaded); ok {
			if !xmath.Equal(a.Min.X, b.Min.X, 1e-9) || !xmath.Equal(a.Max.X, b.Max.X, 1e-9) ||
				!xmath.Equal(a.Min.Y, b.Min.Y, 1e-9) || !xmath.Equal(a.Max.Y, b.Max.Y, 1e-9) {
				return fmt.Errorf("回读后图纸范围发生变化")
			}
		}
	}
	log.Info().Msg("回读校验通过")
	return nil
}

// stripDiagnosticDiffs 滤除诊断字段的差异：诊断记录随加载环境而异
// （被跳过的实体不会再写出），不参与回读对比
func stripDiagnosticDiffs(diffs []string) []string {
	var kept []string
	for _, diff := range diffs {
		if strings.HasPrefix(diff, "$.diagnostics") {
			continue
		}
		kept = append(kept, diff)
	}
	return kept
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	filename, err := pickFile(args)
	if err != nil {
		return err
	}
	doc, err := loadDocument(filename)
	if err != nil {
		return err
	}
	data, err := snapshot.Encode(doc)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
