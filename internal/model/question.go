package model

// Question represents a single pool question with four answer options.
// CorrectOption is the option index (0=A .. 3=D).
type Question struct {
	ID            int    `json:"id"`
	PoolID        int    `json:"pool_id"`
	Number        string `json:"number"`
	Text          string `json:"text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectOption int    `json:"correct_option"`
	Refs          string `json:"refs,omitempty"`
}

// Options returns the four answer options in display order.
func (q Question) Options() [4]string {
	return [4]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}

// SubelementCode returns the sub-element group code for a question number,
// e.g. "T1A" for "T1A01". Returns "" for numbers shorter than three runes.
func SubelementCode(number string) string {
	if len(number) < 3 {
		return ""
	}
	return number[:3]
}
