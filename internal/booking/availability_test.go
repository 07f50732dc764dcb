package booking

import (
	"testing"
	"time"
)

func at(h int) time.Time {
	return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{name: "identical windows", aStart: at(10), aEnd: at(12), bStart: at(10), bEnd: at(12), want: true},
		{name: "partial overlap at tail", aStart: at(10), aEnd: at(12), bStart: at(11), bEnd: at(13), want: true},
		{name: "partial overlap at head", aStart: at(11), aEnd: at(13), bStart: at(10), bEnd: at(12), want: true},
		{name: "contained window", aStart: at(10), aEnd: at(14), bStart: at(11), bEnd: at(12), want: true},
		{name: "containing window", aStart: at(11), aEnd: at(12), bStart: at(10), bEnd: at(14), want: true},
		{name: "touching, a then b", aStart: at(10), aEnd: at(12), bStart: at(12), bEnd: at(14), want: false},
		{name: "touching, b then a", aStart: at(12), aEnd: at(14), bStart: at(10), bEnd: at(12), want: false},
		{name: "disjoint", aStart: at(8), aEnd: at(9), bStart: at(12), bEnd: at(14), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidWindow(t *testing.T) {
	if !ValidWindow(at(10), at(11)) {
		t.Error("ValidWindow(10, 11) = false, want true")
	}
	if ValidWindow(at(10), at(10)) {
		t.Error("ValidWindow(10, 10) = true, want false")
	}
	if ValidWindow(at(11), at(10)) {
		t.Error("ValidWindow(11, 10) = true, want false")
	}
}
