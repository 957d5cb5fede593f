// Package console は、CLIの標準出力への表示 (色付きステータス行とプレビュー表) を扱います。
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer は、端末向けの整形済みメッセージを出力します。
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ColorsEnabled は、NO_COLOR と TERM=dumb を考慮して色付けを行うかを判定します。
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// NewPrinter は out と err に出力する Printer を生成します。
func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out は標準出力側の書き込み先を返します。表の描画に使います。
func (p *Printer) Out() io.Writer {
	return p.out
}

// Info は情報メッセージを出力します。
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success は成功メッセージを出力します。
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning は警告を err 側に出力します。
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error はエラーを err 側に出力します。
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Header はセクション見出しを出力します。
func (p *Printer) Header(title string) {
	underline := strings.Repeat("-", len([]rune(title)))
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", underline)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, underline)
}
