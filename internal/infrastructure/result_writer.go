package infrastructure

import (
	"bufio"
	"fmt"
	"integral-solver/internal/domain"
	"io"
	"strconv"

	"go.uber.org/zap"
)

type FmtFunc func(float64) string

var _ domain.ResultWriter = (*TextResultWriter)(nil)

// TextResultWriter prints the bounds, the area and optionally the elapsed time.
type TextResultWriter struct {
	logger    *zap.Logger
	formatter FmtFunc
	showTime  bool
}

func NewTextResultWriter(logger *zap.Logger, decimals int, showTime bool) *TextResultWriter {
	return &TextResultWriter{
		logger: logger,
		formatter: func(val float64) string {
			return strconv.FormatFloat(val, 'f', decimals, 64)
		},
		showTime: showTime,
	}
}

func (w *TextResultWriter) WriteResult(out io.Writer, result *domain.Result) error {
	writer := bufio.NewWriter(out)

	fmt.Fprintf(writer, "Area (a=%.2f, b=%.2f): %s\n", result.Lower, result.Upper, w.formatter(result.Area))
	if w.showTime {
		fmt.Fprintf(writer, "time: %fs\n", result.Elapsed.Seconds())
	}

	if err := writer.Flush(); err != nil {
		w.logger.Error("Failed to write result", zap.Error(err))
		return err
	}
	return nil
}
