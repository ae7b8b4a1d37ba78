package family

import "strings"

// Gender is the visual classification of a person.
type Gender uint8

const (
	Unknown Gender = iota
	Female
	Male
)

// ParseGender maps a free-form gender value to a Gender.
// Matching is case-insensitive; anything unrecognized is Unknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f", "w":
		return Female
	case "male", "m":
		return Male
	default:
		return Unknown
	}
}

func (g Gender) String() string {
	switch g {
	case Female:
		return "female"
	case Male:
		return "male"
	default:
		return "unknown"
	}
}

// SpousePrefix marks the spouse line of a box.
const SpousePrefix = "⚭ "

// Person is the payload of a tree node.
type Person struct {
	Name     string
	Gender   Gender
	Spouse   string
	Bio      string
	BoxWidth float64 // 0 means the configured default
}

// NewPerson normalizes a record into a Person. Children are ignored.
func NewPerson(r *Record) Person {
	p := Person{
		Name:     strings.TrimSpace(r.Name),
		Gender:   ParseGender(r.Gender),
		Bio:      r.Bio,
		BoxWidth: r.BoxW,
	}
	if r.Spouse != nil {
		p.Spouse = strings.TrimSpace(r.Spouse.Name)
	}
	return p
}

// HasSpouse reports whether the person has a spouse label.
func (p Person) HasSpouse() bool { return p.Spouse != "" }

// SpouseLabel returns the spouse line, or "" without a spouse.
func (p Person) SpouseLabel() string {
	if p.Spouse == "" {
		return ""
	}
	return SpousePrefix + p.Spouse
}

// CompactSpouse reports whether the spouse line needs the small font.
// Labels naming more than one spouse ("A & B") do.
func (p Person) CompactSpouse() bool {
	return strings.Contains(p.Spouse, "&")
}

// Class returns the CSS class list of the person's box.
func (p Person) Class() string {
	switch p.Gender {
	case Female:
		return "box box--female"
	case Male:
		return "box box--male"
	default:
		return "box"
	}
}

// Width returns the box width, falling back to def when unset.
func (p Person) Width(def float64) float64 {
	if p.BoxWidth > 0 {
		return p.BoxWidth
	}
	return def
}
