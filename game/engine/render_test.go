package engine

import (
	"testing"
	"time"
)

func TestEngine_FrameDrawOrder(t *testing.T) {
	engine, _ := newTestEngine(t)
	frame := engine.Frame()

	tiles := 10 * 8
	if want := tiles + 2 + 3; len(frame.Rects) != want {
		t.Fatalf("Expected %d rects, got %d", want, len(frame.Rects))
	}
	if frame.Width != 400 || frame.Height != 320 {
		t.Errorf("Expected 400x320 frame, got %dx%d", frame.Width, frame.Height)
	}

	if frame.Rects[0].RGB != WallRGB {
		t.Errorf("Expected wall color at the corner, got %06x", frame.Rects[0].RGB)
	}
	// row 1 col 1 is interior and (1+1) is even
	if got := frame.Rects[10+1].RGB; got != PathLightRGB {
		t.Errorf("Expected light path tile, got %06x", got)
	}
	if got := frame.Rects[10+2].RGB; got != PathDarkRGB {
		t.Errorf("Expected dark path tile, got %06x", got)
	}

	zone := frame.Rects[tiles]
	if zone.RGB != Red.RGB() || zone.X != 280 || zone.Y != 160 || zone.W != 40 {
		t.Errorf("Unexpected zone rect %+v", zone)
	}

	head := frame.Rects[tiles+2]
	if head.RGB != 0xff0000 || head.X != 160+segmentInset {
		t.Errorf("Unexpected head rect %+v", head)
	}
	if got := frame.Rects[tiles+3].RGB; got != 0xff4444 {
		t.Errorf("Expected first body shade ff4444, got %06x", got)
	}
	if got := frame.Rects[tiles+4].RGB; got != 0xff8888 {
		t.Errorf("Expected second body shade ff8888, got %06x", got)
	}
}

func TestEngine_FlashEasesOut(t *testing.T) {
	engine, _ := newTestEngine(t)
	engine.Move(Right)
	engine.Move(Right)
	engine.Move(Right)

	if s := engine.flashStrength(); s != 1 {
		t.Errorf("Expected full flash strength at start, got %f", s)
	}
	engine.Advance(100 * time.Millisecond)
	mid := engine.flashStrength()
	if mid <= 0 || mid >= 1 {
		t.Errorf("Expected partial strength mid-flash, got %f", mid)
	}
	engine.Advance(100 * time.Millisecond)
	if s := engine.flashStrength(); s != 0 {
		t.Errorf("Expected no strength after the flash, got %f", s)
	}
}

func TestDisplayList_Replay(t *testing.T) {
	list := NewDisplayList(80, 80)
	list.FillRect(0, 0, 40, 40, 0x123456)
	list.FillRect(40, 0, 40, 40, 0x654321)

	replayed := NewDisplayList(80, 80)
	list.Replay(replayed)
	if len(replayed.Rects) != 2 || replayed.Rects[1].RGB != 0x654321 {
		t.Errorf("Expected replayed rects, got %+v", replayed.Rects)
	}
}

func TestColorHelpers(t *testing.T) {
	if segmentShade(0xff0000, 3) != 0xffcccc {
		t.Errorf("Expected third shade ffcccc, got %06x", segmentShade(0xff0000, 3))
	}
	if segmentShade(0x0000ff, 9) != 0xccccff {
		t.Errorf("Expected shade to cap, got %06x", segmentShade(0x0000ff, 9))
	}
	if blendRGB(0x000000, 0xffffff, 1) != 0xffffff || blendRGB(0x102030, 0xffffff, 0) != 0x102030 {
		t.Error("Expected blend endpoints to be exact")
	}
	if _, err := ParseColor("teal"); err == nil {
		t.Error("Expected unknown color to fail")
	}
	if c, err := ParseColor("green"); err != nil || c != Green {
		t.Errorf("Expected green, got %s %v", c, err)
	}
	if _, err := ParseDirection("north"); err == nil {
		t.Error("Expected unknown direction to fail")
	}
}
