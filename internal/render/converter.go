package render

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"house-design-backend/internal/metrics"
	"house-design-backend/internal/svg"
	"house-design-backend/pkg/logger"
)

// Converter tries its backends in order and returns the first PNG. When all
// of them fail it falls back to the SVG source; it never returns an error.
type Converter struct {
	backends       []Backend
	opts           Options
	attemptTimeout time.Duration
}

// NewConverter builds a converter. attemptTimeout bounds each backend call
// (zero disables it).
func NewConverter(opts Options, attemptTimeout time.Duration, backends ...Backend) *Converter {
	return &Converter{
		backends:       backends,
		opts:           opts,
		attemptTimeout: attemptTimeout,
	}
}

// Backends returns the backend names in priority order.
func (c *Converter) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

func (c *Converter) ConvertToImage(ctx context.Context, doc svg.Document) Result {
	for _, backend := range c.backends {
		out, err := c.attempt(ctx, backend, doc)
		if err != nil {
			logger.WithFields(logger.Fields{
				"backend": backend.Name(),
				"kind":    kindOf(err),
			}).Warnf("svg rendering failed, trying next backend: %v", err)
			metrics.RenderAttempts.WithLabelValues(backend.Name(), kindOf(err)).Inc()
			continue
		}

		metrics.RenderAttempts.WithLabelValues(backend.Name(), "success").Inc()
		metrics.Conversions.WithLabelValues(string(FormatPNG)).Inc()

		return pngResult(backend.Name(), out.bytes, out.width, out.height)
	}

	logger.Warnf("all %d svg renderers failed, returning svg source", len(c.backends))
	metrics.Conversions.WithLabelValues(string(FormatSVG)).Inc()
	return svgFallback(doc)
}

type rendered struct {
	bytes         []byte
	width, height int
}

// attempt runs one backend, turning panics, empty output and non-PNG output
// into errors.
func (c *Converter) attempt(ctx context.Context, backend Backend, doc svg.Document) (out rendered, err error) {
	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.RenderDuration.WithLabelValues(backend.Name()).Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if r := recover(); r != nil {
			out = rendered{}
			err = newRenderError(backend.Name(), "render", KindPanic, fmt.Errorf("%v", r))
		}
	}()

	data, err := backend.Render(ctx, doc, c.opts)
	if err != nil {
		return rendered{}, err
	}
	if len(data) == 0 {
		return rendered{}, newRenderError(backend.Name(), "render", KindEmpty, ErrEmptyOutput)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return rendered{}, newRenderError(backend.Name(), "verify", KindEncode, err)
	}
	return rendered{bytes: data, width: cfg.Width, height: cfg.Height}, nil
}
