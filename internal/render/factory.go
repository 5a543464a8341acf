package render

import (
	"fmt"

	"house-design-backend/internal/config"
	"house-design-backend/pkg/logger"

	"github.com/spf13/afero"
)

// DefaultOrder is the priority order: cheapest and most reliable first,
// the browser last.
var DefaultOrder = []string{NativeName, DrawingName, BrowserName}

// NewFromConfig builds a Converter with the configured backends, keeping the
// configured order.
func NewFromConfig(cfg config.RenderConfig) (*Converter, error) {
	order := cfg.Backends
	if len(order) == 0 {
		order = DefaultOrder
	}

	seen := make(map[string]bool, len(order))
	backends := make([]Backend, 0, len(order))
	for _, name := range order {
		if seen[name] {
			return nil, fmt.Errorf("render backend %q listed twice", name)
		}
		seen[name] = true

		switch name {
		case NativeName:
			backends = append(backends, NewNativeRenderer(cfg.Native.ErrorMode))
		case DrawingName:
			backends = append(backends, NewDrawingRenderer(afero.NewOsFs(), cfg.TempDir, cfg.Drawing.DPI))
		case BrowserName:
			if !cfg.Browser.Enabled {
				logger.Info("browser renderer disabled by config")
				continue
			}
			browser := NewBrowserRenderer(BrowserOptions{
				TempDir:  cfg.TempDir,
				ExecPath: cfg.Browser.ExecPath,
				Timeout:  cfg.Browser.Timeout,
				Width:    cfg.Browser.Width,
				Height:   cfg.Browser.Height,
			})
			if !browser.Available() {
				logger.Warn("browser renderer enabled but no chrome executable was found; it will fail until one is installed")
			}
			backends = append(backends, browser)
		default:
			return nil, fmt.Errorf("unknown render backend %q", name)
		}
	}

	opts := Options{Width: cfg.Width, Height: cfg.Height}
	return NewConverter(opts, cfg.AttemptTimeout, backends...), nil
}
