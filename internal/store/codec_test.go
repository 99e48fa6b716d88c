package store

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/clemlesne/feedback-fountain/internal/models"
)

func sampleFeedback() models.Feedback {
	return models.Feedback{
		ID:      uuid.MustParse("b9a4f8c2-1d3e-4f5a-8b6c-7d8e9f0a1b2c"),
		Created: time.Date(2024, 3, 9, 12, 30, 45, 0, time.UTC),
		Owner:   uuid.MustParse("0e1f2a3b-4c5d-6e7f-8091-a2b3c4d5e6f7"),
		Title:   "Search is slow",
		Content: "Looking up a workshop takes ten seconds.",
		Tags:    []string{"search", "performance"},
	}
}

func TestEncodeCanonicalizesLeaves(t *testing.T) {
	f := sampleFeedback()

	doc, err := Encode(&f)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if got, want := doc["_id"], "b9a4f8c21d3e4f5a8b6c7d8e9f0a1b2c"; got != want {
		t.Fatalf("_id = %v, want %v", got, want)
	}
	if got, want := doc["created"], "2024-03-09T12:30:45Z"; got != want {
		t.Fatalf("created = %v, want %v", got, want)
	}
	if got, want := doc["owner"], "0e1f2a3b4c5d6e7f8091a2b3c4d5e6f7"; got != want {
		t.Fatalf("owner = %v, want %v", got, want)
	}
	tags, ok := doc["tags"].(bson.A)
	if !ok || len(tags) != 2 || tags[0] != "search" {
		t.Fatalf("tags = %#v, want normalized array", doc["tags"])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := sampleFeedback()

	doc, err := Encode(&f)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var back models.Feedback
	if err := Decode(doc, &back); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if back.ID != f.ID {
		t.Fatalf("ID = %v, want %v", back.ID, f.ID)
	}
	if !back.Created.Equal(f.Created) {
		t.Fatalf("Created = %v, want %v", back.Created, f.Created)
	}
	if back.Owner != f.Owner || back.Title != f.Title || back.Content != f.Content {
		t.Fatalf("round trip mismatch: %+v != %+v", back, f)
	}
	if len(back.Tags) != len(f.Tags) || back.Tags[0] != f.Tags[0] || back.Tags[1] != f.Tags[1] {
		t.Fatalf("Tags = %v, want %v", back.Tags, f.Tags)
	}
}

func TestEncodeNormalizesNestedValues(t *testing.T) {
	type inner struct {
		When time.Time `bson:"when"`
	}
	type outer struct {
		Items []inner           `bson:"items"`
		Meta  map[string]any    `bson:"meta"`
		Ref   *uuid.UUID        `bson:"ref"`
		Plain string            `bson:"plain"`
		Count int               `bson:"count"`
		Empty map[string]string `bson:"empty"`
	}
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	v := outer{
		Items: []inner{{When: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
		Meta:  map[string]any{"id": id},
		Ref:   &id,
		Plain: "text",
		Count: 3,
		Empty: map[string]string{},
	}

	doc, err := Encode(&v)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	items := doc["items"].(bson.A)
	if got := items[0].(bson.M)["when"]; got != "2024-01-01T00:00:00Z" {
		t.Fatalf("nested when = %v", got)
	}
	if got := doc["meta"].(bson.M)["id"]; got != "11111111222233334444555555555555" {
		t.Fatalf("map uuid = %v", got)
	}
	if got := doc["ref"]; got != "11111111222233334444555555555555" {
		t.Fatalf("pointer uuid = %v", got)
	}
	if doc["plain"] != "text" || doc["count"] != 3 {
		t.Fatalf("primitives changed: %#v", doc)
	}
}

func TestDecodeRejectsMalformedRecords(t *testing.T) {
	valid, err := Encode(sampleFeedback())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(doc bson.M)
	}{
		{"bad uuid", func(doc bson.M) { doc["_id"] = "not-a-uuid" }},
		{"bad timestamp", func(doc bson.M) { doc["created"] = "yesterday" }},
		{"wrong type", func(doc bson.M) { doc["title"] = 42 }},
		{"missing field", func(doc bson.M) { delete(doc, "owner") }},
		{"tags not array", func(doc bson.M) { doc["tags"] = "search" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := bson.M{}
			for k, v := range valid {
				doc[k] = v
			}
			tc.mutate(doc)
			var out models.Feedback
			if err := Decode(doc, &out); err == nil {
				t.Fatalf("Decode accepted malformed record: %#v", doc)
			}
		})
	}
}

func TestDecodeAllSkipsMalformedRecords(t *testing.T) {
	good1, _ := Encode(sampleFeedback())
	f2 := sampleFeedback()
	f2.ID = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	good2, _ := Encode(&f2)
	bad := bson.M{"_id": "broken"}

	out := decodeAll[models.Feedback]("feedbacks", []bson.M{good1, bad, good2}, slog.Default())

	if len(out) != 2 {
		t.Fatalf("decodeAll returned %d records, want 2", len(out))
	}
	if out[0].ID == out[1].ID {
		t.Fatalf("expected both valid records, got duplicates")
	}
}

func TestDecodeAcceptsBsonDDocuments(t *testing.T) {
	type inner struct {
		Name string `bson:"name"`
	}
	type outer struct {
		Child inner `bson:"child"`
	}
	doc := bson.M{"child": bson.D{{Key: "name", Value: "x"}}}

	var out outer
	if err := Decode(doc, &out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Child.Name != "x" {
		t.Fatalf("Child.Name = %q, want x", out.Child.Name)
	}
}

func TestHexIDParsesBack(t *testing.T) {
	id := uuid.New()
	parsed, err := uuid.Parse(HexID(id))
	if err != nil {
		t.Fatalf("Parse(HexID) failed: %v", err)
	}
	if parsed != id {
		t.Fatalf("parsed = %v, want %v", parsed, id)
	}
}
