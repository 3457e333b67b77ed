package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/openwaves/openwaves-backend/internal/model"
)

func techCounts(n int) []model.SubelementCount {
	counts := make([]model.SubelementCount, n)
	for i := range counts {
		counts[i] = model.SubelementCount{
			Code:     fmt.Sprintf("T%d%c", i/26, 'A'+i%26),
			Quantity: 2,
		}
	}
	return counts
}

func techQuestions(counts []model.SubelementCount) []model.Question {
	var questions []model.Question
	id := 1
	for _, c := range counts {
		for j := 0; j < c.Quantity; j++ {
			questions = append(questions, model.Question{
				ID:     id,
				Number: fmt.Sprintf("%s%02d", c.Code, j+1),
			})
			id++
		}
	}
	return questions
}

func TestCheckGroupTally(t *testing.T) {
	cases := []struct {
		name    string
		groups  int
		wantErr error
	}{
		{"exact", 35, nil},
		{"short pool", 34, ErrIncompletePool},
		{"empty pool", 0, ErrIncompletePool},
		{"oversized pool", 36, ErrOversizedPool},
		{"extra-sized pool for tech exam", 50, ErrOversizedPool},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkGroupTally(tc.groups, model.ElementTechnician)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("checkGroupTally(%d) error = %v, want %v", tc.groups, err, tc.wantErr)
			}
		})
	}
}

func TestDrawQuestionsOnePerGroup(t *testing.T) {
	counts := techCounts(35)
	questions := techQuestions(counts)

	drawn, err := drawQuestions(counts, questions)
	if err != nil {
		t.Fatalf("drawQuestions() error = %v", err)
	}
	if len(drawn) != 35 {
		t.Fatalf("drew %d questions, want 35", len(drawn))
	}
	for i, q := range drawn {
		if got := model.SubelementCode(q.Number); got != counts[i].Code {
			t.Errorf("question %d from group %s, want %s", i, got, counts[i].Code)
		}
	}
}

func TestDrawQuestionsMissingGroup(t *testing.T) {
	counts := techCounts(35)
	questions := techQuestions(counts[:34]) // tally exists, questions don't

	_, err := drawQuestions(counts, questions)
	if !errors.Is(err, ErrIncompletePool) {
		t.Fatalf("error = %v, want ErrIncompletePool", err)
	}
}
