package hueslicer

import (
	"fmt"
	"os"

	"github.com/lollotek/huforge-splitter-cli/utils"
)

// DiagnosticKind names one of the recovered-error categories of spec
// section 6's diagnostic channel.
type DiagnosticKind string

const (
	KindOpenLoop          DiagnosticKind = "OpenLoop"
	KindEmptySeamFallback DiagnosticKind = "EmptySeamFallback"
	KindDroppedDegenerate DiagnosticKind = "DroppedDegenerate"
	KindMalformedRecord   DiagnosticKind = "MalformedRecord"
)

// Diagnostic is a single structured record emitted to the external logging
// collaborator referenced in spec section 6.
type Diagnostic struct {
	Kind   DiagnosticKind
	CutID  string
	TileID *TileID
	Detail string
}

// Logger is the external logging collaborator's interface. The core never
// calls os.Exit or log.Fatal on a recoverable condition; it emits a
// Diagnostic and continues.
type Logger interface {
	Emit(d Diagnostic)
}

// stderrLogger is the default Logger, decorating output the way the
// teacher's utils.DecorateText/Spinner combination does for CLI messages.
type stderrLogger struct{}

// NewStderrLogger returns a Logger that writes decorated diagnostic lines
// to stderr.
func NewStderrLogger() Logger {
	return stderrLogger{}
}

func (stderrLogger) Emit(d Diagnostic) {
	msg := fmt.Sprintf("[%s]", d.Kind)
	if d.CutID != "" {
		msg += fmt.Sprintf(" cut=%s", d.CutID)
	}
	if d.TileID != nil {
		msg += fmt.Sprintf(" tile=(%d,%d)", d.TileID.Row, d.TileID.Col)
	}
	if d.Detail != "" {
		msg += " " + d.Detail
	}
	fmt.Fprintln(os.Stderr, utils.DecorateText(msg, utils.StatusMessage))
}

// loggerOrDefault returns cfg.Logger, falling back to a stderr logger when
// the config leaves it unset.
func loggerOrDefault(l Logger) Logger {
	if l == nil {
		return NewStderrLogger()
	}
	return l
}
