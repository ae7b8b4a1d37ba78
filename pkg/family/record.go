package family

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"gopkg.in/yaml.v3"
)

// Record is one person in the serialized family tree.
type Record struct {
	Name     string    `yaml:"name" json:"name" bson:"name"`
	Gender   string    `yaml:"gender,omitempty" json:"gender,omitempty" bson:"gender,omitempty"`
	Spouse   *Spouse   `yaml:"spouse,omitempty" json:"spouse,omitempty" bson:"spouse,omitempty"`
	Bio      string    `yaml:"bio,omitempty" json:"bio,omitempty" bson:"bio,omitempty"`
	BoxW     float64   `yaml:"boxW,omitempty" json:"boxW,omitempty" bson:"boxW,omitempty"`
	Children []*Record `yaml:"children,omitempty" json:"children,omitempty" bson:"children,omitempty"`
}

// Spouse is the secondary label of a record. It decodes from either a
// plain string or an object with a name field, and always encodes as a
// plain string.
type Spouse struct {
	Name string
}

// Count returns the number of records reachable from r, r included.
// Shared or cyclic records are counted once per visit; callers that need
// cycle safety build a hierarchy instead.
func (r *Record) Count() int {
	if r == nil {
		return 0
	}
	n := 1
	for _, c := range r.Children {
		n += c.Count()
	}
	return n
}

type spouseObject struct {
	Name string `yaml:"name" json:"name" bson:"name"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Spouse) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&s.Name)
	case yaml.MappingNode:
		var obj spouseObject
		if err := value.Decode(&obj); err != nil {
			return err
		}
		s.Name = obj.Name
		return nil
	default:
		return fmt.Errorf("spouse: line %d: expected a string or an object", value.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s Spouse) MarshalYAML() (any, error) {
	return s.Name, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Spouse) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var obj spouseObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		s.Name = obj.Name
		return nil
	}
	if err := json.Unmarshal(data, &s.Name); err != nil {
		return fmt.Errorf("spouse: expected a string or an object: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Spouse) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Name)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (s *Spouse) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		s.Name = raw.StringValue()
		return nil
	case bsontype.EmbeddedDocument:
		var obj spouseObject
		if err := raw.Unmarshal(&obj); err != nil {
			return err
		}
		s.Name = obj.Name
		return nil
	case bsontype.Null, bsontype.Undefined:
		return nil
	default:
		return fmt.Errorf("spouse: unexpected bson type %s", t)
	}
}
