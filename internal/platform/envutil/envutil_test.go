package envutil

import (
	"testing"
	"time"
)

func TestBool(t *testing.T) {
	t.Setenv("APPLYTRACK_TEST_BOOL", "yes")
	if !Bool("APPLYTRACK_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("APPLYTRACK_TEST_BOOL", "off")
	if Bool("APPLYTRACK_TEST_BOOL", true) {
		t.Fatalf("expected false")
	}
	t.Setenv("APPLYTRACK_TEST_BOOL", "maybe")
	if !Bool("APPLYTRACK_TEST_BOOL", true) {
		t.Fatalf("expected default for unparseable value")
	}
}

func TestIntAndSeconds(t *testing.T) {
	t.Setenv("APPLYTRACK_TEST_INT", "42")
	if got := Int("APPLYTRACK_TEST_INT", 1); got != 42 {
		t.Fatalf("Int: got=%d", got)
	}
	t.Setenv("APPLYTRACK_TEST_INT", "nope")
	if got := Int("APPLYTRACK_TEST_INT", 7); got != 7 {
		t.Fatalf("Int default: got=%d", got)
	}
	t.Setenv("APPLYTRACK_TEST_SECS", "90")
	if got := Seconds("APPLYTRACK_TEST_SECS", time.Second); got != 90*time.Second {
		t.Fatalf("Seconds: got=%s", got)
	}
}

func TestCSV(t *testing.T) {
	t.Setenv("APPLYTRACK_TEST_CSV", " a, ,b ,c")
	got := CSV("APPLYTRACK_TEST_CSV", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("CSV: got=%v", got)
	}
	t.Setenv("APPLYTRACK_TEST_CSV", "")
	if got := CSV("APPLYTRACK_TEST_CSV", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("CSV default: got=%v", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("APPLYTRACK_TEST_FLOAT", "0.25")
	if got := Float("APPLYTRACK_TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("Float: got=%v", got)
	}
	t.Setenv("APPLYTRACK_TEST_FLOAT", "abc")
	if got := Float("APPLYTRACK_TEST_FLOAT", 0.7); got != 0.7 {
		t.Fatalf("Float default: got=%v", got)
	}
}
