package mongodb

import (
	"context"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xenking/shopfront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// productDoc is the stored shape of a catalog product. Optional fields are
// pointers or omitempty so that documents written by earlier tooling (which
// skipped category and in_stock) still decode.
type productDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category,omitempty"`
	Image       string               `bson:"image,omitempty"`
	InStock     *bool                `bson:"in_stock,omitempty"`
}

// ProductRepository implements product.Repository backed by MongoDB.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository returns a ProductRepository over the given database.
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(productCollection)}
}

// List returns every product in store-native order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "listing products")
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding products")
	}

	return mapProducts(docs)
}

// GetByIDs resolves all given identifiers in a single $in query. Unmatched
// identifiers are absent from the result; a malformed identifier fails the
// whole call with product.ErrInvalidID.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	oids := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, errors.Wrapf(product.ErrInvalidID, "%q", id)
		}
		oids[i] = oid
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, errors.Wrap(err, "finding products by id")
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding products")
	}

	return mapProducts(docs)
}

// Count reports the number of products in the catalog.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "counting products")
	}
	return count, nil
}

// InsertMany stores the given products in one call and returns their
// store-assigned identifiers.
func (r *ProductRepository) InsertMany(ctx context.Context, products []product.Product) ([]string, error) {
	docs := make([]any, len(products))
	for i, p := range products {
		doc, err := productToDoc(p)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, errors.Wrap(err, "inserting products")
	}

	ids := make([]string, len(res.InsertedIDs))
	for i, raw := range res.InsertedIDs {
		oid, ok := raw.(primitive.ObjectID)
		if !ok {
			return nil, errors.Errorf("unexpected inserted id type %T", raw)
		}
		ids[i] = oid.Hex()
	}
	return ids, nil
}

func productToDoc(p product.Product) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	inStock := p.InStock
	return productDoc{
		Title:       p.Title,
		Description: p.Description,
		Price:       price,
		Category:    p.Category,
		Image:       p.Image,
		InStock:     &inStock,
	}, nil
}

// mapProducts converts stored documents into domain values, filling defaults
// for optional fields exactly once.
func mapProducts(docs []productDoc) ([]product.Product, error) {
	products := make([]product.Product, len(docs))
	for i, doc := range docs {
		p, err := docToProduct(doc)
		if err != nil {
			return nil, err
		}
		products[i] = p
	}
	return products, nil
}

func docToProduct(doc productDoc) (product.Product, error) {
	price, err := fromDecimal128(doc.Price)
	if err != nil {
		return product.Product{}, err
	}

	category := doc.Category
	if category == "" {
		category = product.DefaultCategory
	}
	inStock := true
	if doc.InStock != nil {
		inStock = *doc.InStock
	}

	return product.Product{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Price:       price,
		Category:    category,
		Image:       doc.Image,
		InStock:     inStock,
	}, nil
}
