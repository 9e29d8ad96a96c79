package model

// ReferenceKind names one of the fixed vocabularies used to categorize quests
type ReferenceKind string

const (
	ReferenceQuestType  ReferenceKind = "quest_type"
	ReferenceDifficulty ReferenceKind = "difficulty"
	ReferenceInterest   ReferenceKind = "interest"
)

// ReferenceKinds lists every vocabulary
var ReferenceKinds = []ReferenceKind{ReferenceQuestType, ReferenceDifficulty, ReferenceInterest}

// IsValid reports whether k is a known vocabulary
func (k ReferenceKind) IsValid() bool {
	switch k {
	case ReferenceQuestType, ReferenceDifficulty, ReferenceInterest:
		return true
	}
	return false
}

// ReferenceEntry is one named value in a vocabulary
type ReferenceEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Achievement is a catalogue entry users can earn
type Achievement struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
}
