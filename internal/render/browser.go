package render

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"house-design-backend/internal/svg"
	"house-design-backend/pkg/logger"

	"github.com/chromedp/chromedp"
	"github.com/spf13/afero"
)

const (
	defaultBrowserTimeout = 30 * time.Second
	defaultViewportWidth  = 400
	defaultViewportHeight = 400
)

var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

var errChromeNotFound = errors.New("no chrome executable found")

// BrowserRenderer screenshots the SVG in headless Chrome. It is the most
// expensive backend and always runs under a timeout; Chrome and the
// transient HTML file are released however the call ends.
type BrowserRenderer struct {
	tempDir  string
	execPath string
	timeout  time.Duration
	width    int
	height   int

	fs       afero.Fs
	lookPath func(string) (string, error)
}

type BrowserOptions struct {
	TempDir  string
	ExecPath string
	Timeout  time.Duration
	Width    int
	Height   int
}

func NewBrowserRenderer(opts BrowserOptions) *BrowserRenderer {
	r := &BrowserRenderer{
		tempDir:  opts.TempDir,
		execPath: opts.ExecPath,
		timeout:  opts.Timeout,
		width:    opts.Width,
		height:   opts.Height,
		fs:       afero.NewOsFs(),
		lookPath: exec.LookPath,
	}
	if r.timeout <= 0 {
		r.timeout = defaultBrowserTimeout
	}
	if r.width <= 0 {
		r.width = defaultViewportWidth
	}
	if r.height <= 0 {
		r.height = defaultViewportHeight
	}
	return r
}

func (r *BrowserRenderer) Name() string { return BrowserName }

// Available reports whether a Chrome executable can be found.
func (r *BrowserRenderer) Available() bool {
	_, err := r.resolveExec()
	return err == nil
}

func (r *BrowserRenderer) resolveExec() (string, error) {
	if r.execPath != "" {
		return r.lookPath(r.execPath)
	}
	for _, name := range chromeCandidates {
		if path, err := r.lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errChromeNotFound
}

func (r *BrowserRenderer) viewport(opts Options) (int, int) {
	w, h := r.width, r.height
	if opts.Width > 0 {
		w = opts.Width
	}
	if opts.Height > 0 {
		h = opts.Height
	}
	return w, h
}

func (r *BrowserRenderer) Render(ctx context.Context, doc svg.Document, opts Options) ([]byte, error) {
	execPath, err := r.resolveExec()
	if err != nil {
		return nil, newRenderError(BrowserName, "launch", KindUnavailable, err)
	}

	tmp, err := createTempFile(r.fs, r.tempDir, "floorplan-*.html", htmlShell(doc))
	if err != nil {
		return nil, newRenderError(BrowserName, "write", KindIO, err)
	}
	defer func() {
		if err := tmp.Release(); err != nil {
			logger.Warnf("browser renderer: failed to remove %s: %v", tmp.Path(), err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	w, h := r.viewport(opts)
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.DisableGPU,
		chromedp.WindowSize(w, h),
	)
	if os.Geteuid() == 0 {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	// cancelling the allocator context kills the browser process
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var shot []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(int64(w), int64(h)),
		chromedp.Navigate(fileURL(tmp.Path())),
		chromedp.CaptureScreenshot(&shot),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newRenderError(BrowserName, "screenshot", KindTimeout, ctx.Err())
		}
		return nil, newRenderError(BrowserName, "screenshot", KindRejected, err)
	}
	if len(shot) == 0 {
		return nil, newRenderError(BrowserName, "screenshot", KindEmpty, ErrEmptyOutput)
	}

	return shot, nil
}

func htmlShell(doc svg.Document) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { margin: 0; padding: 0; }
  svg { width: 100%%; height: 100%%; }
</style>
</head>
<body>
%s
</body>
</html>
`, doc.String()))
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
