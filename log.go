package rpncalc

import (
	"context"
	"log/slog"
)

// logEval records the outcome of an evaluation at debug level. It does
// nothing if logger is nil.
func logEval(logger *slog.Logger, e *Expr, r float64, err error) {
	if logger == nil || !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	if err != nil {
		logger.Debug("evaluation failed",
			slog.String("rpn", e.Postfix()),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("expression evaluated",
		slog.String("rpn", e.Postfix()),
		slog.Int("tokens", len(e.rpn)),
		slog.Float64("result", r),
	)
}
