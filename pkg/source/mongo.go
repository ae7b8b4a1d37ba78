package source

import (
	"context"
	stderrors "errors"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// Mongo loads a record tree stored as one nested document. Documents use
// the same field names as the YAML format.
type Mongo struct {
	uri        string
	family     string
	database   string
	collection string
}

// NewMongo parses a mongodb:// locator. The fragment names the family; an
// empty fragment selects the first document of the collection.
func NewMongo(locator string, opts Options) (*Mongo, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse mongo uri")
	}
	name := u.Fragment
	u.Fragment = ""
	u.RawFragment = ""

	d := DefaultOptions()
	if opts.MongoDatabase == "" {
		opts.MongoDatabase = d.MongoDatabase
	}
	if opts.MongoCollection == "" {
		opts.MongoCollection = d.MongoCollection
	}
	return &Mongo{
		uri:        u.String(),
		family:     name,
		database:   opts.MongoDatabase,
		collection: opts.MongoCollection,
	}, nil
}

// Load connects, fetches the family document and disconnects.
func (m *Mongo) Load(ctx context.Context) (*family.Record, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	filter := bson.M{}
	if m.family != "" {
		filter["name"] = m.family
	}

	var rec family.Record
	err = client.Database(m.database).Collection(m.collection).FindOne(ctx, filter).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "family %q not found in %s.%s", m.family, m.database, m.collection)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch family %q", m.family)
	}
	return &rec, nil
}

// Locator returns the URI with the family fragment.
func (m *Mongo) Locator() string {
	if m.family == "" {
		return m.uri
	}
	return m.uri + "#" + url.PathEscape(m.family)
}

// Family returns the requested family name.
func (m *Mongo) Family() string { return m.family }

// Namespace returns the database and collection.
func (m *Mongo) Namespace() (database, collection string) {
	return m.database, m.collection
}

var _ Loader = (*Mongo)(nil)
