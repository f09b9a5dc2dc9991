package ui

// Mode is the system mode shown in the indicator area of a display.
type Mode int

const (
	Enrollment Mode = iota
	Attendance
)

func (m Mode) String() string {
	switch m {
	case Enrollment:
		return "ENROLL"
	case Attendance:
		return "ATTEND"
	default:
		return "?"
	}
}

// Display renders short status texts on whatever screen the terminal has.
type Display interface {
	ShowMessageAtPos(x, y int, text string)
	ShowMessage(text string)
	ShowMode(mode Mode, highlighted bool)
}
