package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" x-api-key = abc , broken, =v, k= ,tenant=t1")
	if len(got) != 2 || got["x-api-key"] != "abc" || got["tenant"] != "t1" {
		t.Fatalf("unexpected headers %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v", in, got)
		}
	}
}
