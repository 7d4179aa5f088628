package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/metrics"
)

// calculator ties a registry and a context to metrics and logging for the
// command line front end.
type calculator struct {
	defs *rpncalc.Definitions
	ctx  *rpncalc.Context
	rec  metrics.Recorder
	log  *slog.Logger
	verb string
}

func (c *calculator) parse(src string) (*rpncalc.Expr, error) {
	start := time.Now()
	e, err := rpncalc.Parse(src, rpncalc.UseDefinitions(c.defs))
	c.rec.ObserveParse(time.Since(start), err)
	if err != nil {
		c.log.Debug("parse failed", slog.String("src", src), slog.String("error", err.Error()))
	}
	return e, err
}

func (c *calculator) eval(e *rpncalc.Expr) (float64, error) {
	start := time.Now()
	r, err := c.ctx.Eval(e)
	c.rec.ObserveEval(time.Since(start), err)
	return r, err
}

// evalString parses and evaluates src.
func (c *calculator) evalString(src string) (float64, error) {
	e, err := c.parse(src)
	if err != nil {
		return 0, err
	}
	return c.eval(e)
}

// format formats a result with the configured verb.
func (c *calculator) format(r float64) string {
	return fmt.Sprintf(c.verb, r)
}
