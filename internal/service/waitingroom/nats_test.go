package waitingroom

import (
	"context"
	"testing"
)

func TestSubjects(t *testing.T) {
	if got := CallRequestSubject("dental"); got != "dental.waitingroom.call" {
		t.Errorf("CallRequestSubject() = %q", got)
	}

	tests := []struct {
		cabinet string
		want    string
	}{
		{"C1", "dental.waitingroom.called.c1"},
		{"Cabinet 2", "dental.waitingroom.called.cabinet_2"},
		{"Salle.Radio", "dental.waitingroom.called.salle_radio"},
		{"  ", "dental.waitingroom.called._"},
	}
	for _, tt := range tests {
		if got := CalledSubject("dental", tt.cabinet); got != tt.want {
			t.Errorf("CalledSubject(%q) = %q, want %q", tt.cabinet, got, tt.want)
		}
	}
}

type recordingPublisher struct {
	calls []Call
}

func (r *recordingPublisher) PublishCall(_ context.Context, c Call) error {
	r.calls = append(r.calls, c)
	return nil
}

func TestCallNextPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	p, _, _ := newTestPager(t, func(o *Options) { o.Publisher = pub })

	call, err := p.CallNext(context.Background(), patient(1), drAmrani, "C4")
	if err != nil {
		t.Fatal(err)
	}
	if len(pub.calls) != 1 || pub.calls[0].ID != call.ID {
		t.Errorf("published = %v", pub.calls)
	}
}
