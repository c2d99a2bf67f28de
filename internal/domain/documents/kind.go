package documents

import "fmt"

// Kind selects which document family a version belongs to.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "cover_letter"
)

var Kinds = []Kind{KindResume, KindCoverLetter}

func ParseKind(s string) (Kind, error) {
	if k := Kind(s); k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

func (k Kind) Valid() bool { return k == KindResume || k == KindCoverLetter }

func (k Kind) Table() string {
	if k == KindCoverLetter {
		return "cover_letter_versions"
	}
	return "resume_versions"
}

// BodyField is the JSON key the document body travels under.
func (k Kind) BodyField() string {
	if k == KindCoverLetter {
		return "cover_letter_json"
	}
	return "resume_json"
}

// JobFlag is the jobs column recording that a document of this kind exists.
func (k Kind) JobFlag() string {
	if k == KindCoverLetter {
		return "has_cover_letter"
	}
	return "has_resume"
}

// Label is used in user-facing messages ("Resume version not found").
func (k Kind) Label() string {
	if k == KindCoverLetter {
		return "Cover letter"
	}
	return "Resume"
}
