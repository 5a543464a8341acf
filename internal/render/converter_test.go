package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"house-design-backend/internal/svg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50"><rect width="100" height="50" fill="#336699"/></svg>`

type fakeBackend struct {
	name     string
	data     []byte
	err      error
	panicMsg string
	block    bool
	calls    int
	lastOpts Options
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Render(ctx context.Context, doc svg.Document, opts Options) ([]byte, error) {
	f.calls++
	f.lastOpts = opts
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.data, f.err
}

func mustDoc(t *testing.T, text string) svg.Document {
	t.Helper()
	doc, err := svg.Extract(text)
	require.NoError(t, err)
	return doc
}

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func failing(name string) *fakeBackend {
	return &fakeBackend{name: name, err: newRenderError(name, "render", KindRejected, errors.New("boom"))}
}

func TestConvertShortCircuitsOnFirstSuccess(t *testing.T) {
	native := &fakeBackend{name: NativeName, data: tinyPNG(t, 12, 8)}
	drawing := &fakeBackend{name: DrawingName, data: tinyPNG(t, 1, 1)}
	browser := &fakeBackend{name: BrowserName, data: tinyPNG(t, 1, 1)}

	c := NewConverter(Options{Width: 12}, 0, native, drawing, browser)
	result := c.ConvertToImage(context.Background(), mustDoc(t, minimalSVG))

	assert.Equal(t, FormatPNG, result.Format)
	assert.Equal(t, NativeName, result.Backend)
	assert.Equal(t, 12, result.Width)
	assert.Equal(t, 8, result.Height)
	assert.NotEmpty(t, result.PNG)
	assert.Equal(t, 1, native.calls)
	assert.Equal(t, 0, drawing.calls)
	assert.Equal(t, 0, browser.calls)
	assert.Equal(t, Options{Width: 12}, native.lastOpts)
}

func TestConvertFallsThroughInOrder(t *testing.T) {
	native := failing(NativeName)
	drawing := &fakeBackend{name: DrawingName, data: tinyPNG(t, 4, 4)}
	browser := &fakeBackend{name: BrowserName, data: tinyPNG(t, 1, 1)}

	result := NewConverter(Options{}, 0, native, drawing, browser).
		ConvertToImage(context.Background(), mustDoc(t, minimalSVG))

	assert.Equal(t, FormatPNG, result.Format)
	assert.Equal(t, DrawingName, result.Backend)
	assert.Equal(t, 1, native.calls)
	assert.Equal(t, 1, drawing.calls)
	assert.Equal(t, 0, browser.calls)
}

func TestConvertAllFailReturnsSVGFallback(t *testing.T) {
	backends := []*fakeBackend{failing(NativeName), failing(DrawingName), failing(BrowserName)}
	doc := mustDoc(t, "prefix "+minimalSVG+" suffix")

	result := NewConverter(Options{}, 0, backends[0], backends[1], backends[2]).
		ConvertToImage(context.Background(), doc)

	assert.True(t, result.IsFallback())
	assert.Equal(t, FormatSVG, result.Format)
	assert.Equal(t, minimalSVG, result.SVG)
	assert.Nil(t, result.PNG)
	for _, b := range backends {
		assert.Equal(t, 1, b.calls, b.name)
	}
}

func TestConvertWithoutBackendsFallsBack(t *testing.T) {
	result := NewConverter(Options{}, 0).ConvertToImage(context.Background(), mustDoc(t, minimalSVG))
	assert.Equal(t, FormatSVG, result.Format)
	assert.Equal(t, minimalSVG, result.SVG)
}

func TestConvertTreatsEmptyOutputAsFailure(t *testing.T) {
	empty := &fakeBackend{name: NativeName, data: []byte{}}
	next := &fakeBackend{name: DrawingName, data: tinyPNG(t, 2, 2)}

	result := NewConverter(Options{}, 0, empty, next).ConvertToImage(context.Background(), mustDoc(t, minimalSVG))

	assert.Equal(t, DrawingName, result.Backend)
	assert.Equal(t, 1, next.calls)
}

func TestConvertRejectsNonPNGOutput(t *testing.T) {
	bogus := &fakeBackend{name: NativeName, data: []byte("not a png")}

	result := NewConverter(Options{}, 0, bogus).ConvertToImage(context.Background(), mustDoc(t, minimalSVG))

	assert.Equal(t, FormatSVG, result.Format)
}

func TestConvertRecoversFromPanickingBackend(t *testing.T) {
	crashing := &fakeBackend{name: NativeName, panicMsg: "nil map"}
	next := &fakeBackend{name: DrawingName, data: tinyPNG(t, 3, 3)}

	var result Result
	assert.NotPanics(t, func() {
		result = NewConverter(Options{}, 0, crashing, next).ConvertToImage(context.Background(), mustDoc(t, minimalSVG))
	})
	assert.Equal(t, DrawingName, result.Backend)
}

func TestConvertBoundsEachAttempt(t *testing.T) {
	hanging := &fakeBackend{name: BrowserName, block: true}
	next := &fakeBackend{name: NativeName, data: tinyPNG(t, 2, 2)}

	start := time.Now()
	result := NewConverter(Options{}, 20*time.Millisecond, hanging, next).
		ConvertToImage(context.Background(), mustDoc(t, minimalSVG))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, NativeName, result.Backend)
	assert.Equal(t, 1, hanging.calls)
}

func TestConverterBackendsOrder(t *testing.T) {
	c := NewConverter(Options{}, 0, failing(NativeName), failing(DrawingName), failing(BrowserName))
	assert.Equal(t, []string{NativeName, DrawingName, BrowserName}, c.Backends())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "timeout", kindOf(newRenderError(BrowserName, "screenshot", KindTimeout, context.DeadlineExceeded)))
	assert.Equal(t, "error", kindOf(errors.New("plain")))
}

func TestRenderErrorUnwraps(t *testing.T) {
	err := newRenderError(DrawingName, "scale", KindRejected, ErrNoIntrinsicSize)

	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, DrawingName, re.Backend)
	assert.True(t, errors.Is(err, ErrNoIntrinsicSize))
	assert.Contains(t, err.Error(), "drawing renderer scale failed (rejected)")
}
