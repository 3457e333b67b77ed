package model

import "testing"

func intp(v int) *int { return &v }

// makeAnswers builds n slots where the first correct of them are answered
// right, the next wrong are answered wrong, and the rest stay blank.
func makeAnswers(n, correct, wrong int) []ExamAnswer {
	answers := make([]ExamAnswer, n)
	for i := range answers {
		answers[i].QuestionNumber = i + 1
		answers[i].CorrectOption = 0
		switch {
		case i < correct:
			answers[i].Answer = intp(0)
		case i < correct+wrong:
			answers[i].Answer = intp(1)
		}
	}
	return answers
}

func TestGradeExam(t *testing.T) {
	cases := []struct {
		name       string
		element    Element
		correct    int
		wrong      int
		blank      int
		wantScore  int
		wantPassed bool
	}{
		{"technician pass at threshold", ElementTechnician, 26, 9, 0, 26, true},
		{"technician fail one short", ElementTechnician, 25, 10, 0, 25, false},
		{"general counts blanks as wrong", ElementGeneral, 30, 0, 5, 30, true},
		{"extra pass at threshold", ElementExtra, 37, 13, 0, 37, true},
		{"extra fail one short", ElementExtra, 36, 14, 0, 36, false},
		{"all blank fails", ElementTechnician, 0, 0, 35, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := tc.correct + tc.wrong + tc.blank
			score, passed := GradeExam(makeAnswers(total, tc.correct, tc.wrong), tc.element)
			if score != tc.wantScore || passed != tc.wantPassed {
				t.Errorf("GradeExam() = (%d, %t), want (%d, %t)",
					score, passed, tc.wantScore, tc.wantPassed)
			}
		})
	}
}

func TestScoreString(t *testing.T) {
	cases := []struct {
		score   int
		element Element
		want    string
	}{
		{26, ElementTechnician, "Score: 26/35 (Pass)"},
		{25, ElementGeneral, "Score: 25/35 (Fail)"},
		{37, ElementExtra, "Score: 37/50 (Pass)"},
		{36, ElementExtra, "Score: 36/50 (Fail)"},
	}

	for _, tc := range cases {
		if got := ScoreString(tc.score, tc.element); got != tc.want {
			t.Errorf("ScoreString(%d, %d) = %q, want %q", tc.score, tc.element, got, tc.want)
		}
	}
}

func TestNextIndex(t *testing.T) {
	cases := []struct {
		name    string
		current int
		action  NavAction
		total   int
		want    int
	}{
		{"next advances", 5, NavNext, 35, 6},
		{"next clamps at last question", 34, NavNext, 35, 34},
		{"back retreats", 5, NavBack, 35, 4},
		{"back clamps at first question", 0, NavBack, 35, 0},
		{"stay holds position", 7, NavStay, 35, 7},
		{"review holds position", 7, NavReview, 35, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextIndex(tc.current, tc.action, tc.total); got != tc.want {
				t.Errorf("NextIndex(%d, %q, %d) = %d, want %d",
					tc.current, tc.action, tc.total, got, tc.want)
			}
		})
	}
}

func TestSubelementCode(t *testing.T) {
	if got := SubelementCode("T1A01"); got != "T1A" {
		t.Errorf("SubelementCode(T1A01) = %q, want T1A", got)
	}
	if got := SubelementCode("E9F12"); got != "E9F" {
		t.Errorf("SubelementCode(E9F12) = %q, want E9F", got)
	}
	if got := SubelementCode("T1"); got != "" {
		t.Errorf("SubelementCode(T1) = %q, want empty", got)
	}
}

func TestElementThresholds(t *testing.T) {
	cases := []struct {
		element Element
		count   int
		passing int
		name    string
	}{
		{ElementTechnician, 35, 26, "Tech"},
		{ElementGeneral, 35, 26, "General"},
		{ElementExtra, 50, 37, "Extra"},
	}

	for _, tc := range cases {
		if got := tc.element.QuestionCount(); got != tc.count {
			t.Errorf("element %d QuestionCount() = %d, want %d", tc.element, got, tc.count)
		}
		if got := tc.element.PassingScore(); got != tc.passing {
			t.Errorf("element %d PassingScore() = %d, want %d", tc.element, got, tc.passing)
		}
		if got := tc.element.Name(); got != tc.name {
			t.Errorf("element %d Name() = %q, want %q", tc.element, got, tc.name)
		}
	}
	if Element(5).Valid() {
		t.Error("Element(5).Valid() = true, want false")
	}
}
