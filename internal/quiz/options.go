package quiz

import "errors"

const (
	MinOptions = 2
	MaxOptions = 6

	NewOptionText = "New option"
)

var (
	ErrTooManyOptions = errors.New("question already has the maximum number of options")
	ErrTooFewOptions  = errors.New("question already has the minimum number of options")
	ErrOptionIndex    = errors.New("option index out of range")
)

// Label maps an option position to its letter: 0 -> "A", 5 -> "F".
func Label(i int) string {
	return string(rune('A' + i))
}

// LabelIndex is the inverse of Label. It returns -1 for anything that is not
// a single uppercase letter.
func LabelIndex(label string) int {
	if len(label) != 1 || label[0] < 'A' || label[0] > 'Z' {
		return -1
	}
	return int(label[0] - 'A')
}

// AddOption appends text to q's options. A question that already holds
// MaxOptions options is returned unchanged with ErrTooManyOptions.
func AddOption(q Question, text string) (Question, error) {
	if len(q.Options) >= MaxOptions {
		return q, ErrTooManyOptions
	}
	out := q.clone()
	out.Options = append(out.Options, text)
	return out, nil
}

// UpdateOption replaces the text at position i. CorrectOption is untouched.
func UpdateOption(q Question, i int, text string) (Question, error) {
	if i < 0 || i >= len(q.Options) {
		return q, ErrOptionIndex
	}
	out := q.clone()
	out.Options[i] = text
	return out, nil
}

// RemoveOption drops the option at position i and re-derives CorrectOption
// so it keeps pointing at the same option. Removing the correct option resets
// the answer to "A".
func RemoveOption(q Question, i int) (Question, error) {
	if len(q.Options) <= MinOptions {
		return q, ErrTooFewOptions
	}
	if i < 0 || i >= len(q.Options) {
		return q, ErrOptionIndex
	}
	out := q.clone()
	out.Options = append(out.Options[:i], out.Options[i+1:]...)

	removed := Label(i)
	switch {
	case out.CorrectOption == removed:
		out.CorrectOption = Label(0)
	case out.CorrectOption > removed:
		out.CorrectOption = string(rune(out.CorrectOption[0] - 1))
	}
	return out, nil
}

// ValidAnswerKey reports whether CorrectOption indexes an existing option and
// the option count is within bounds.
func ValidAnswerKey(q Question) bool {
	n := len(q.Options)
	if n < MinOptions || n > MaxOptions {
		return false
	}
	idx := LabelIndex(q.CorrectOption)
	return idx >= 0 && idx < n
}

func (q Question) clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}
