package outcome

import "testing"

func TestOutcomeConstructors(t *testing.T) {
	ok := OK(3)
	if !ok.Usable() || ok.Value != 3 || ok.Status.String() != "ok" {
		t.Fatalf("unexpected ok: %+v", ok)
	}
	d := Degrade("fallback", "timeout")
	if !d.Usable() || d.Value != "fallback" || d.Reason != "timeout" || d.Status.String() != "degraded" {
		t.Fatalf("unexpected degraded: %+v", d)
	}
	f := Fail[int]("unreadable")
	if f.Usable() || f.Status.String() != "fatal" || f.Reason != "unreadable" {
		t.Fatalf("unexpected fatal: %+v", f)
	}
}
