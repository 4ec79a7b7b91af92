package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/models"
)

// MongoOrderRepository implements OrderStore on a MongoDB collection. The
// order id is the document _id, so a replayed insert hits a duplicate key.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

type orderDocument struct {
	ID              string                 `bson:"_id"`
	OrderNumber     string                 `bson:"order_number"`
	TerminalID      string                 `bson:"terminal_id"`
	CreatedAt       time.Time              `bson:"created_at"`
	CustomerID      *string                `bson:"customer_id,omitempty"`
	CustomerName    string                 `bson:"customer_name,omitempty"`
	CustomerPhone   string                 `bson:"customer_phone,omitempty"`
	Lines           []orderLineDocument    `bson:"lines"`
	Subtotal        primitive.Decimal128   `bson:"subtotal"`
	DiscountPercent primitive.Decimal128   `bson:"discount_percent"`
	DiscountAmount  primitive.Decimal128   `bson:"discount_amount"`
	TaxRate         primitive.Decimal128   `bson:"tax_rate"`
	TaxAmount       primitive.Decimal128   `bson:"tax_amount"`
	Total           primitive.Decimal128   `bson:"total"`
	PaymentMethod   string                 `bson:"payment_method"`
	PaymentDetails  *models.PaymentDetails `bson:"payment_details,omitempty"`
}

type orderLineDocument struct {
	ID          string               `bson:"id"`
	ProductID   string               `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	Quantity    int                  `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
	LineTotal   primitive.Decimal128 `bson:"line_total"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		// Decimal128 holds 34 significant digits; anything wider is rounded first.
		v, _ = primitive.ParseDecimal128(d.Round(6).String())
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toOrderDocument(o *models.Order) orderDocument {
	doc := orderDocument{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		TerminalID:      o.TerminalID,
		CreatedAt:       o.CreatedAt.UTC(),
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Subtotal:        toDecimal128(o.Subtotal),
		DiscountPercent: toDecimal128(o.DiscountPercent),
		DiscountAmount:  toDecimal128(o.DiscountAmount),
		TaxRate:         toDecimal128(o.TaxRate),
		TaxAmount:       toDecimal128(o.TaxAmount),
		Total:           toDecimal128(o.Total),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentDetails:  o.PaymentDetails,
	}
	for _, l := range o.Lines {
		doc.Lines = append(doc.Lines, orderLineDocument{
			ID:          l.ID.String(),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   toDecimal128(l.UnitPrice),
			LineTotal:   toDecimal128(l.LineTotal),
		})
	}
	return doc
}

func (d orderDocument) toModel() (*models.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", d.ID, err)
	}
	o := &models.Order{
		ID:              id,
		OrderNumber:     d.OrderNumber,
		TerminalID:      d.TerminalID,
		CreatedAt:       d.CreatedAt,
		CustomerID:      d.CustomerID,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		Subtotal:        fromDecimal128(d.Subtotal),
		DiscountPercent: fromDecimal128(d.DiscountPercent),
		DiscountAmount:  fromDecimal128(d.DiscountAmount),
		TaxRate:         fromDecimal128(d.TaxRate),
		TaxAmount:       fromDecimal128(d.TaxAmount),
		Total:           fromDecimal128(d.Total),
		PaymentMethod:   models.PaymentMethod(d.PaymentMethod),
		PaymentDetails:  d.PaymentDetails,
	}
	for _, l := range d.Lines {
		lineID, _ := uuid.Parse(l.ID)
		o.Lines = append(o.Lines, models.OrderLine{
			ID:          lineID,
			OrderID:     id,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   fromDecimal128(l.UnitPrice),
			LineTotal:   fromDecimal128(l.LineTotal),
		})
	}
	return o, nil
}

func (r *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	_, err := r.collection.InsertOne(ctx, toOrderDocument(order))
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var doc orderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}
