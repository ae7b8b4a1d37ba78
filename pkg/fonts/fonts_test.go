package fonts

import "testing"

func TestFace(t *testing.T) {
	f, err := Face(Regular, 12)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if f.Metrics().Height <= 0 {
		t.Error("face has no height")
	}
	again, _ := Face(Regular, 12)
	if again != f {
		t.Error("faces should be cached")
	}
	bold, err := Face(Bold, 12)
	if err != nil || bold == f {
		t.Errorf("Face(Bold) = %v, %v", bold, err)
	}
}
