package service

import (
	"errors"
	"strings"
	"testing"
)

const sampleCSV = `id,correct,question,a,b,c,d,refs
T1A01,C,Which agency regulates amateur radio?,ITU,ARRL,FCC,NTIA,"97.1"
T1A02,a,What is the FCC Part governing amateur radio?,Part 97,Part 15,Part 90,Part 95,
T1B01,D,Which band is 2 meters?,10m,20m,70cm,144-148 MHz,
`

func TestParsePoolCSV(t *testing.T) {
	questions, counts, err := ParsePoolCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParsePoolCSV() error = %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}

	q := questions[0]
	if q.Number != "T1A01" {
		t.Errorf("number = %q, want T1A01", q.Number)
	}
	if q.CorrectOption != 2 {
		t.Errorf("correct option = %d, want 2 (C)", q.CorrectOption)
	}
	if q.OptionC != "FCC" {
		t.Errorf("option c = %q, want FCC", q.OptionC)
	}
	if q.Refs != "97.1" {
		t.Errorf("refs = %q, want 97.1", q.Refs)
	}

	// Lowercase correct letters are accepted.
	if questions[1].CorrectOption != 0 {
		t.Errorf("lowercase correct option = %d, want 0 (a)", questions[1].CorrectOption)
	}

	if counts["T1A"] != 2 || counts["T1B"] != 1 {
		t.Errorf("sub-element counts = %v, want T1A:2 T1B:1", counts)
	}
}

func TestParsePoolCSVRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{"wrong header", "number,answer,text,a,b,c,d,refs\nT1A01,A,q,1,2,3,4,\n"},
		{"missing columns", "id,correct,question,a,b,c,d,refs\nT1A01,A,q,1,2\n"},
		{"bad correct letter", "id,correct,question,a,b,c,d,refs\nT1A01,E,q,1,2,3,4,\n"},
		{"bad question number", "id,correct,question,a,b,c,d,refs\nT1,A,q,1,2,3,4,\n"},
		{"empty file", ""},
		{"header only", "id,correct,question,a,b,c,d,refs\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParsePoolCSV(strings.NewReader(tc.csv))
			if !errors.Is(err, ErrMalformedCSV) {
				t.Errorf("error = %v, want ErrMalformedCSV", err)
			}
		})
	}
}
