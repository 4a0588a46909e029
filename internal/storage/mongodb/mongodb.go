// Package mongodb implements the catalog and order repositories on top of a
// MongoDB document store. All identifier parsing, default-filling and
// decimal mapping happens here; domain packages only ever see fully-typed
// values.
package mongodb

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. The original deployment used singular names, and seeded
// data must keep resolving, so these stay singular.
const (
	productCollection = "product"
	orderCollection   = "order"
)

// Connect establishes a verified MongoDB connection. The returned client is
// ready for use; the caller owns Disconnect.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping MongoDB")
	}

	return client, nil
}

// toDecimal128 converts a shopspring decimal into the BSON decimal type.
// Prices and totals are well within Decimal128 range, so a conversion
// failure means corrupted input and is surfaced as an error.
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, errors.Wrapf(err, "convert %s to decimal128", d)
	}
	return out, nil
}

// fromDecimal128 converts a stored BSON decimal back into a shopspring
// decimal. The zero Decimal128 stringifies to "0", so documents missing the
// field decode as a zero amount.
func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "parse stored decimal %q", d.String())
	}
	return out, nil
}
