package mongodb

import (
	"github.com/DarshaunDavis/teststrip-marketplace/internal/marketplace/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func toRecords(docs []bson.M) []domain.Record {
	out := make([]domain.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toRecord(doc))
	}
	return out
}

// toRecord turns a decoded document into a Record holding plain Go values.
func toRecord(doc bson.M) domain.Record {
	rec := domain.Record{Fields: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			rec.ID = idString(v)
			continue
		}
		if plain := plainValue(v); plain != nil {
			rec.Fields[k] = plain
		}
	}
	return rec
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	}
	return ""
}

func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return nil
	case int32:
		return int64(t)
	case int:
		return int64(t)
	case primitive.DateTime:
		return int64(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.A:
		return plainSlice([]interface{}(t))
	case []interface{}:
		return plainSlice(t)
	case bson.M:
		return plainMap(map[string]interface{}(t))
	case map[string]interface{}:
		return plainMap(t)
	case bson.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			if pv := plainValue(e.Value); pv != nil {
				m[e.Key] = pv
			}
		}
		return m
	}
	return v
}

func plainSlice(in []interface{}) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, e := range in {
		if pv := plainValue(e); pv != nil {
			out = append(out, pv)
		}
	}
	return out
}

func plainMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, e := range in {
		if pv := plainValue(e); pv != nil {
			out[k] = pv
		}
	}
	return out
}

// toDocument copies fields into a bson.M, dropping any caller-supplied _id.
func toDocument(fields map[string]interface{}) bson.M {
	doc := make(bson.M, len(fields))
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc
}
