package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// digestKey names an entry "<kind>:<digest>", kind being "record" or
// "artifact". The digest covers the JSON form of parts, so option structs
// key by value.
func digestKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// unencodable parts share one key that nothing writes
		return kind + ":unhashable"
	}
	return kind + ":" + Hash(data)
}

// Hash fingerprints a family tree document. Artifact keys embed it, so an
// edited file misses the cache even when its source locator is unchanged.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
