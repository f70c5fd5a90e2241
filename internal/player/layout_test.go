package player

import "testing"

func TestPlace(t *testing.T) {
	cases := []struct {
		align    Align
		x, y     int
		row, col int
	}{
		{AlignTopLeft, 0, 0, 1, 1},
		{AlignTopRight, 0, 0, 1, 71},
		{AlignBottomLeft, 0, 0, 15, 1},
		{AlignBottomRight, 0, 0, 15, 71},
		{AlignCenter, 0, 0, 8, 36},
		{AlignCustom, 5, 3, 4, 6},
		{AlignCustom, 500, -3, 1, 71},
	}
	for _, tc := range cases {
		row, col := Place(tc.align, 80, 24, 10, 10, tc.x, tc.y)
		if row != tc.row || col != tc.col {
			t.Fatalf("%s: got %d,%d want %d,%d", tc.align, row, col, tc.row, tc.col)
		}
	}
}

func TestPlaceOversizedBox(t *testing.T) {
	row, col := Place(AlignBottomRight, 10, 5, 20, 20, 0, 0)
	if row != 1 || col != 1 {
		t.Fatalf("oversized box should pin to the origin, got %d,%d", row, col)
	}
}

func TestComputeLayoutBlocks(t *testing.T) {
	l := ComputeLayout(SurfaceBlocks, 200, 100, 1, 80, 24, AlignTopLeft, 0, 0)
	if l.Width != 80 || l.Height != 40 {
		t.Fatalf("unexpected pixels %dx%d", l.Width, l.Height)
	}
	if l.Cols != 80 || l.Rows != 20 {
		t.Fatalf("unexpected cells %dx%d", l.Cols, l.Rows)
	}

	l = ComputeLayout(SurfaceBlocks, 10, 10, 2, 80, 24, AlignCenter, 0, 0)
	if l.Width != 20 || l.Height != 20 || l.Cols != 20 || l.Rows != 10 {
		t.Fatalf("unexpected scaled layout %+v", l)
	}
}

func TestComputeLayoutKitty(t *testing.T) {
	l := ComputeLayout(SurfaceKitty, 100, 50, 0.5, 80, 24, AlignTopLeft, 0, 0)
	if l.Width != 50 || l.Height != 25 {
		t.Fatalf("unexpected pixels %dx%d", l.Width, l.Height)
	}
	if l.Cols != 7 || l.Rows != 2 {
		t.Fatalf("unexpected cells %dx%d", l.Cols, l.Rows)
	}
}

func TestParseAlign(t *testing.T) {
	if a, err := ParseAlign(""); err != nil || a != AlignCenter {
		t.Fatalf("empty should mean center")
	}
	if a, err := ParseAlign("Bottom-Right"); err != nil || a != AlignBottomRight {
		t.Fatalf("unexpected %q %v", a, err)
	}
	if _, err := ParseAlign("middle"); err == nil {
		t.Fatalf("expected error")
	}
}
