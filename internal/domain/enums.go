package domain

// Orientation controls where the reading text is placed relative to the base
// character. It is purely presentational: the value becomes a CSS class on
// every emitted annotation.
type Orientation string

const (
	OrientationVerticalRight   Orientation = "vertical-right"
	OrientationHorizontalAbove Orientation = "horizontal-above"
	OrientationHorizontalBelow Orientation = "horizontal-below"
)

func (o Orientation) String() string { return string(o) }

func (o Orientation) IsValid() bool {
	switch o {
	case OrientationVerticalRight, OrientationHorizontalAbove, OrientationHorizontalBelow:
		return true
	}
	return false
}

// Orientations lists every valid orientation in display order.
func Orientations() []Orientation {
	return []Orientation{
		OrientationVerticalRight,
		OrientationHorizontalAbove,
		OrientationHorizontalBelow,
	}
}

// FragmentKind distinguishes the pieces a text node is split into.
type FragmentKind int

const (
	FragmentPlain FragmentKind = iota
	FragmentAnnotation
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentPlain:
		return "plain"
	case FragmentAnnotation:
		return "annotation"
	}
	return "unknown"
}
