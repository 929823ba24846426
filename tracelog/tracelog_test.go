package tracelog_test

import (
	"strings"
	"testing"

	"github.com/beachviking/resid-core/tracelog"
)

func TestWriteAndClear(t *testing.T) {
	tracelog.Clear()
	tracelog.Record(0, 0x04, 0x21)
	tracelog.Record(10, 0x05, 0x09)

	var w strings.Builder
	tracelog.Write(&w)

	got := w.String()
	if !strings.Contains(got, "$04 = $21") {
		t.Errorf("expected first write in output, got %q", got)
	}
	if !strings.Contains(got, "$05 = $09") {
		t.Errorf("expected second write in output, got %q", got)
	}

	tracelog.Clear()
	w.Reset()
	tracelog.Write(&w)
	if w.String() != "" {
		t.Errorf("expected empty log after Clear, got %q", w.String())
	}
}

func TestRepeatedWritesCoalesce(t *testing.T) {
	tracelog.Clear()
	tracelog.Record(0, 0x04, 0x21)
	tracelog.Record(1, 0x04, 0x21)
	tracelog.Record(2, 0x04, 0x21)

	var w strings.Builder
	tracelog.Write(&w)

	got := w.String()
	if strings.Count(got, "$04 = $21") != 1 {
		t.Errorf("expected repeated identical writes to coalesce into one line, got %q", got)
	}
	if !strings.Contains(got, "repeat x3") {
		t.Errorf("expected repeat count of 3, got %q", got)
	}
}

func TestTail(t *testing.T) {
	tracelog.Clear()
	tracelog.Record(0, 0x00, 0x01)
	tracelog.Record(1, 0x01, 0x02)
	tracelog.Record(2, 0x02, 0x03)

	var w strings.Builder
	tracelog.Tail(&w, 2)

	got := w.String()
	if strings.Contains(got, "$00 = $01") {
		t.Errorf("Tail(2) should not include the oldest entry, got %q", got)
	}
	if !strings.Contains(got, "$01 = $02") || !strings.Contains(got, "$02 = $03") {
		t.Errorf("Tail(2) missing expected recent entries, got %q", got)
	}
}
