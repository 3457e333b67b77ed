package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSessionStatus(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)
	started := now.Add(-2 * time.Hour)
	ended := now.Add(-1 * time.Hour)

	cases := []struct {
		name    string
		session ExamSession
		want    SessionStatus
	}{
		{
			name:    "future date is registration",
			session: ExamSession{SessionDate: date(2025, time.June, 20)},
			want:    SessionStatusRegistration,
		},
		{
			name:    "past date is closed",
			session: ExamSession{SessionDate: date(2025, time.June, 10)},
			want:    SessionStatusClosed,
		},
		{
			name:    "past date stays closed even if never ended",
			session: ExamSession{SessionDate: date(2025, time.June, 10), StartTime: &started},
			want:    SessionStatusClosed,
		},
		{
			name:    "today not yet started is registration",
			session: ExamSession{SessionDate: date(2025, time.June, 15)},
			want:    SessionStatusRegistration,
		},
		{
			name:    "today started is open",
			session: ExamSession{SessionDate: date(2025, time.June, 15), StartTime: &started},
			want:    SessionStatusOpen,
		},
		{
			name: "today ended is closed",
			session: ExamSession{
				SessionDate: date(2025, time.June, 15),
				StartTime:   &started,
				EndTime:     &ended,
			},
			want: SessionStatusClosed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.session.Status(now); got != tc.want {
				t.Errorf("Status() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPoolIDForElement(t *testing.T) {
	s := ExamSession{TechPoolID: 1, GenPoolID: 2, ExtraPoolID: 3}

	if got := s.PoolIDForElement(ElementTechnician); got != 1 {
		t.Errorf("tech pool = %d, want 1", got)
	}
	if got := s.PoolIDForElement(ElementGeneral); got != 2 {
		t.Errorf("gen pool = %d, want 2", got)
	}
	if got := s.PoolIDForElement(ElementExtra); got != 3 {
		t.Errorf("extra pool = %d, want 3", got)
	}
	if got := s.PoolIDForElement(Element(9)); got != 0 {
		t.Errorf("unknown element pool = %d, want 0", got)
	}
}
