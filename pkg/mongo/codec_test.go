package mongo

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type pricedDoc struct {
	Name  string          `bson:"name"`
	Price decimal.Decimal `bson:"price"`
}

func TestDecimalCodecRoundTrip(t *testing.T) {
	reg := newRegistry()

	buf := new(bytes.Buffer)
	enc := bson.NewEncoder(bson.NewDocumentWriter(buf))
	enc.SetRegistry(reg)
	if err := enc.Encode(pricedDoc{Name: "Veg Burger", Price: decimal.RequireFromString("149.50")}); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	raw := bson.Raw(buf.Bytes())
	if got := raw.Lookup("price").Type; got != bson.TypeDecimal128 {
		t.Fatalf("expected price stored as Decimal128, got %s", got)
	}

	var out pricedDoc
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(buf.Bytes())))
	dec.SetRegistry(reg)
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out.Price.Equal(decimal.RequireFromString("149.5")) {
		t.Errorf("expected 149.5, got %s", out.Price)
	}
}

func TestDecimalCodecDecodesLegacyDoubles(t *testing.T) {
	reg := newRegistry()

	legacy, err := bson.Marshal(bson.D{{Key: "name", Value: "Campa"}, {Key: "price", Value: 10.0}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out pricedDoc
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(legacy)))
	dec.SetRegistry(reg)
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out.Price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected 10, got %s", out.Price)
	}
}
