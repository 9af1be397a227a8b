package platform

import (
	"errors"
	"testing"
)

func TestViewport(t *testing.T) {
	tests := []struct {
		name    string
		backend StaticBackend
		want    Size
		wantErr error
	}{
		{
			name: "usable area",
			backend: StaticBackend{{
				Bounds: Rect{Width: 1920, Height: 1080},
				Usable: Rect{Y: 30, Width: 1920, Height: 1050},
			}},
			want: Size{Width: 1920, Height: 1050},
		},
		{
			name:    "falls back to bounds",
			backend: StaticBackend{{Bounds: Rect{Width: 1280, Height: 800}}},
			want:    Size{Width: 1280, Height: 800},
		},
		{
			name:    "no displays",
			backend: StaticBackend{},
			wantErr: ErrNoDisplay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Viewport(tt.backend)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Viewport() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Viewport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{14, 14, true},
		{15, 10, false},
		{9, 12, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
