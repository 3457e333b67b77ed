package model

// Element identifies a license exam element.
type Element int

const (
	ElementTechnician Element = 2
	ElementGeneral    Element = 3
	ElementExtra      Element = 4
)

// Valid reports whether the element is one of the three license elements.
func (e Element) Valid() bool {
	return e == ElementTechnician || e == ElementGeneral || e == ElementExtra
}

// Name returns the license name for the element, or "" for unknown elements.
func (e Element) Name() string {
	switch e {
	case ElementTechnician:
		return "Tech"
	case ElementGeneral:
		return "General"
	case ElementExtra:
		return "Extra"
	default:
		return ""
	}
}

// QuestionCount returns the number of questions on an exam for the element.
func (e Element) QuestionCount() int {
	switch e {
	case ElementTechnician, ElementGeneral:
		return 35
	case ElementExtra:
		return 50
	default:
		return 0
	}
}

// PassingScore returns the minimum number of correct answers to pass.
func (e Element) PassingScore() int {
	switch e {
	case ElementTechnician, ElementGeneral:
		return 26
	case ElementExtra:
		return 37
	default:
		return 0
	}
}
