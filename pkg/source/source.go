// Package source loads family trees from files or databases.
//
// A source is named by a locator string. Paths select a YAML or JSON file;
// mongodb:// and mongodb+srv:// URIs select a document in a MongoDB
// collection, with the family name given as the URI fragment:
//
//	family.yaml
//	mongodb://localhost:27017/?appName=lineage#Emperor%20Wilhelm
//
// Loaders that hit the network can be wrapped with [Cached] so repeated
// renders reuse the fetched record.
package source

import (
	"context"
	"strings"

	"github.com/matzehuels/lineage/pkg/family"
)

// Loader fetches one family tree.
type Loader interface {
	// Load returns the root record.
	Load(ctx context.Context) (*family.Record, error)

	// Locator identifies the source for logs and cache keys.
	Locator() string
}

// Options configures database-backed loaders.
type Options struct {
	MongoDatabase   string
	MongoCollection string
}

// DefaultOptions returns the database and collection used when a Mongo
// URI does not name them.
func DefaultOptions() Options {
	return Options{MongoDatabase: "lineage", MongoCollection: "families"}
}

// Open selects a loader for locator.
func Open(locator string, opts Options) (Loader, error) {
	if isMongo(locator) {
		return NewMongo(locator, opts)
	}
	return NewFile(locator)
}

func isMongo(locator string) bool {
	return strings.HasPrefix(locator, "mongodb://") || strings.HasPrefix(locator, "mongodb+srv://")
}
