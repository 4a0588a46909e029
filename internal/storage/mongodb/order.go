package mongodb

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xenking/shopfront/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

type orderDoc struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	CustomerName    string               `bson:"customer_name"`
	CustomerEmail   string               `bson:"customer_email"`
	CustomerAddress string               `bson:"customer_address"`
	Items           []lineItemDoc        `bson:"items"`
	Subtotal        primitive.Decimal128 `bson:"subtotal"`
	Tax             primitive.Decimal128 `bson:"tax"`
	Total           primitive.Decimal128 `bson:"total"`
	CreatedAt       time.Time            `bson:"created_at"`
}

type lineItemDoc struct {
	ProductID string               `bson:"product_id"`
	Title     string               `bson:"title"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int                  `bson:"quantity"`
}

// OrderRepository implements order.Repository backed by MongoDB.
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository returns an OrderRepository over the given database.
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection(orderCollection)}
}

// Create persists the order in a single insert and returns the
// store-assigned identifier. Line items keep the request sequence.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (string, error) {
	doc, err := orderToDoc(o)
	if err != nil {
		return "", err
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "inserting order")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func orderToDoc(o *order.Order) (orderDoc, error) {
	subtotal, err := toDecimal128(o.Subtotal)
	if err != nil {
		return orderDoc{}, err
	}
	tax, err := toDecimal128(o.Tax)
	if err != nil {
		return orderDoc{}, err
	}
	total, err := toDecimal128(o.Total)
	if err != nil {
		return orderDoc{}, err
	}

	items := make([]lineItemDoc, len(o.Items))
	for i, item := range o.Items {
		price, err := toDecimal128(item.Price)
		if err != nil {
			return orderDoc{}, err
		}
		items[i] = lineItemDoc{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     price,
			Quantity:  item.Quantity,
		}
	}

	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return orderDoc{
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerAddress: o.CustomerAddress,
		Items:           items,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           total,
		CreatedAt:       createdAt,
	}, nil
}
