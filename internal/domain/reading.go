package domain

// CharacterRecord is one entry of a reading dataset. Word holds a single
// character; Meanings is ordered by preference.
type CharacterRecord struct {
	Word     string    `json:"word"`
	Meanings []Meaning `json:"meanings"`
}

// Meaning is one candidate reading of a character. Datasets name the reading
// field either "bopomofo" or "reading"; both are accepted.
type Meaning struct {
	Bopomofo   string `json:"bopomofo,omitempty"`
	Reading    string `json:"reading,omitempty"`
	Pinyin     string `json:"pinyin,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// PrimaryReading returns the reading text to display for this meaning.
func (m Meaning) PrimaryReading() string {
	if m.Bopomofo != "" {
		return m.Bopomofo
	}
	return m.Reading
}

// Fragment is one piece of a segmented text node: either plain text or a
// single annotated character with its reading.
type Fragment struct {
	Kind    FragmentKind
	Text    string
	Reading string
}
