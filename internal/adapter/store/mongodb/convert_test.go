package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToRecord_PlainValues(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := bson.M{
		"_id":       "rec1",
		"title":     "Strips",
		"createdAt": int64(1700),
		"count":     int32(3),
		"imageUrls": primitive.A{"u1", "u2"},
		"meta":      bson.D{{Key: "owner", Value: oid}},
		"gone":      nil,
	}

	rec := toRecord(doc)

	assert.Equal(t, "rec1", rec.ID)
	assert.Equal(t, "Strips", rec.Fields["title"])
	assert.Equal(t, int64(3), rec.Fields["count"])
	assert.Equal(t, []interface{}{"u1", "u2"}, rec.Fields["imageUrls"])
	assert.Equal(t, map[string]interface{}{"owner": oid.Hex()}, rec.Fields["meta"])
	assert.NotContains(t, rec.Fields, "gone")
	assert.NotContains(t, rec.Fields, "_id")
}

func TestToRecord_ObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), toRecord(bson.M{"_id": oid}).ID)
}

func TestToDocument_DropsID(t *testing.T) {
	doc := toDocument(map[string]interface{}{"_id": "x", "title": "t"})
	assert.Equal(t, bson.M{"title": "t"}, doc)
}
