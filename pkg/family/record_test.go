package family

import (
	"testing"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

func TestSpouseYAML(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"string", "name: A\nspouse: Karl\n", "Karl"},
		{"object", "name: A\nspouse:\n  name: Otto\n", "Otto"},
		{"flow object", "name: A\nspouse: {name: Otto & Emil}\n", "Otto & Emil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := yaml.Unmarshal([]byte(tt.src), &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if r.Spouse == nil || r.Spouse.Name != tt.want {
				t.Errorf("Spouse = %+v, want %q", r.Spouse, tt.want)
			}
		})
	}

	var r Record
	if err := yaml.Unmarshal([]byte("name: A\nspouse: [x]\n"), &r); err == nil {
		t.Error("Unmarshal() with a sequence spouse should fail")
	}
}

func TestSpouseJSON(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"string", `{"name":"A","spouse":"Karl"}`, "Karl"},
		{"object", `{"name":"A","spouse":{"name":"Otto"}}`, "Otto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			if err := json.Unmarshal([]byte(tt.src), &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if r.Spouse == nil || r.Spouse.Name != tt.want {
				t.Errorf("Spouse = %+v, want %q", r.Spouse, tt.want)
			}
		})
	}

	out, err := json.Marshal(Record{Name: "A", Spouse: &Spouse{Name: "Karl"}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(out), `{"name":"A","spouse":"Karl"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestSpouseBSON(t *testing.T) {
	tests := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"string", bson.M{"name": "A", "spouse": "Karl"}, "Karl"},
		{"object", bson.M{"name": "A", "spouse": bson.M{"name": "Otto"}}, "Otto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.doc)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var r Record
			if err := bson.Unmarshal(raw, &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if r.Spouse == nil || r.Spouse.Name != tt.want {
				t.Errorf("Spouse = %+v, want %q", r.Spouse, tt.want)
			}
		})
	}
}

func TestRecordCount(t *testing.T) {
	r := &Record{Name: "root", Children: []*Record{
		{Name: "a", Children: []*Record{{Name: "a1"}}},
		{Name: "b"},
	}}
	if got := r.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	var nilRec *Record
	if got := nilRec.Count(); got != 0 {
		t.Errorf("nil Count() = %d, want 0", got)
	}
}
