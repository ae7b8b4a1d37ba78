package family

import "testing"

func TestParseGender(t *testing.T) {
	tests := []struct {
		in   string
		want Gender
	}{
		{"female", Female},
		{"Female", Female},
		{" FEMALE ", Female},
		{"male", Male},
		{"M", Male},
		{"", Unknown},
		{"other", Unknown},
	}

	for _, tt := range tests {
		if got := ParseGender(tt.in); got != tt.want {
			t.Errorf("ParseGender(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPersonClass(t *testing.T) {
	tests := []struct {
		gender string
		want   string
	}{
		{"female", "box box--female"},
		{"male", "box box--male"},
		{"nonbinary", "box"},
	}

	for _, tt := range tests {
		p := NewPerson(&Record{Name: "x", Gender: tt.gender})
		if got := p.Class(); got != tt.want {
			t.Errorf("Class() for %q = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestPersonSpouse(t *testing.T) {
	p := NewPerson(&Record{Name: "Anna"})
	if p.HasSpouse() || p.SpouseLabel() != "" {
		t.Errorf("person without spouse: HasSpouse() = %v, SpouseLabel() = %q", p.HasSpouse(), p.SpouseLabel())
	}

	p = NewPerson(&Record{Name: "Anna", Spouse: &Spouse{Name: " Karl "}})
	if got, want := p.SpouseLabel(), "⚭ Karl"; got != want {
		t.Errorf("SpouseLabel() = %q, want %q", got, want)
	}
	if p.CompactSpouse() {
		t.Error("CompactSpouse() = true for a single spouse")
	}

	p = NewPerson(&Record{Name: "Anna", Spouse: &Spouse{Name: "Karl & Otto"}})
	if !p.CompactSpouse() {
		t.Error("CompactSpouse() = false for two spouses")
	}
}

func TestPersonWidth(t *testing.T) {
	if got := NewPerson(&Record{Name: "a"}).Width(150); got != 150 {
		t.Errorf("Width() = %v, want 150", got)
	}
	if got := NewPerson(&Record{Name: "a", BoxW: 220}).Width(150); got != 220 {
		t.Errorf("Width() = %v, want 220", got)
	}
}
