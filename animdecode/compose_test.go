package animdecode

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/Arknight38/Gif-Engine/internal/testutil"
)

func TestBlendOverPixelMath(t *testing.T) {
	cases := []struct {
		name     string
		dst, src color.NRGBA
		want     color.NRGBA
	}{
		{"half white over black", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 128}, color.NRGBA{128, 128, 128, 255}},
		{"transparent source", color.NRGBA{1, 2, 3, 4}, color.NRGBA{200, 200, 200, 0}, color.NRGBA{1, 2, 3, 4}},
		{"opaque source", color.NRGBA{1, 2, 3, 4}, color.NRGBA{9, 8, 7, 255}, color.NRGBA{9, 8, 7, 255}},
		{"onto empty", color.NRGBA{}, color.NRGBA{100, 50, 25, 64}, color.NRGBA{100, 50, 25, 64}},
	}
	for _, tc := range cases {
		dst := []uint8{tc.dst.R, tc.dst.G, tc.dst.B, tc.dst.A}
		src := []uint8{tc.src.R, tc.src.G, tc.src.B, tc.src.A}
		blendOver(dst, src)
		got := color.NRGBA{dst[0], dst[1], dst[2], dst[3]}
		if got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCompositorClipsToCanvas(t *testing.T) {
	c := newCompositor(2, 2)
	fc := frameControl{X: 1, Y: 1, Width: 2, Height: 2, DelayNum: 1}
	f := c.step(fc, testutil.Solid(2, 2, color.NRGBA{9, 9, 9, 255}))
	if got := pixelAt(f, 1, 1); got != (color.NRGBA{9, 9, 9, 255}) {
		t.Fatalf("expected in-canvas pixel drawn, got %v", got)
	}
	if got := pixelAt(f, 0, 0); got != (color.NRGBA{}) {
		t.Fatalf("unexpected pixel outside frame rect: %v", got)
	}
	if len(f.Pix) != 16 {
		t.Fatalf("unexpected pix len %d", len(f.Pix))
	}
}

func TestCompositorFirstFrameDisposePrevious(t *testing.T) {
	c := newCompositor(1, 1)
	c.step(frameControl{Width: 1, Height: 1, Dispose: DisposePrevious}, testutil.Solid(1, 1, color.NRGBA{255, 0, 0, 255}))
	f := c.step(frameControl{Width: 1, Height: 1, Blend: BlendOver}, testutil.Solid(1, 1, color.NRGBA{}))
	if got := pixelAt(f, 0, 0); got != (color.NRGBA{}) {
		t.Fatalf("expected canvas restored to empty, got %v", got)
	}
}

func TestCompositorFramesAreIndependent(t *testing.T) {
	c := newCompositor(1, 1)
	a := c.step(frameControl{Width: 1, Height: 1}, testutil.Solid(1, 1, color.NRGBA{1, 1, 1, 255}))
	b := c.step(frameControl{Width: 1, Height: 1}, testutil.Solid(1, 1, color.NRGBA{2, 2, 2, 255}))
	if a.Pix[0] != 1 || b.Pix[0] != 2 {
		t.Fatalf("frames share storage: %v %v", a.Pix, b.Pix)
	}
	b.Pix[0] = 42
	if c.canvas[0] == 42 {
		t.Fatalf("emitted frame aliases the canvas")
	}
}

func TestFrameControlDelay(t *testing.T) {
	cases := []struct {
		num, den uint16
		want     time.Duration
	}{
		{10, 0, 100 * time.Millisecond},
		{1, 1, time.Second},
		{1, 3, 333333333 * time.Nanosecond},
		{0, 100, 0},
	}
	for _, tc := range cases {
		got := frameControl{DelayNum: tc.num, DelayDen: tc.den}.delay()
		if got != tc.want {
			t.Fatalf("%d/%d: got %v want %v", tc.num, tc.den, got, tc.want)
		}
	}
}

func TestOpStrings(t *testing.T) {
	if DisposePrevious.String() != "previous" || BlendOver.String() != "over" {
		t.Fatalf("unexpected op names")
	}
	if _, err := parseDisposeOp(9); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}
