package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

const productCollection = "products"

type mongoProduct struct {
	ID          int64      `bson:"_id"`
	Name        string     `bson:"name"`
	Description string     `bson:"description,omitempty"`
	Price       float64    `bson:"price"`
	Stock       int        `bson:"stock"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   *time.Time `bson:"updated_at,omitempty"`
}

type ProductRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
	scope    *txScope
}

func NewProductRepository(db *mongo.Database, scope *txScope) *ProductRepository {
	return &ProductRepository{
		coll:     db.Collection(productCollection),
		counters: db.Collection(counterCollection),
		scope:    scope,
	}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	ctx = r.scope.bind(ctx)

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, productFromDoc(&docs[i]))
	}
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var mp mongoProduct
	if err := r.coll.FindOne(r.scope.bind(ctx), bson.M{"_id": id}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("product", id)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return productFromDoc(&mp), nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx = r.scope.bind(ctx)

	id, err := nextSequence(ctx, r.counters, productCollection)
	if err != nil {
		return err
	}

	doc := docFromProduct(product)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = id
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
		"updated_at":  product.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(r.scope.bind(ctx), bson.M{"_id": product.ID}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("product", product.ID)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(r.scope.bind(ctx), bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := r.coll.CountDocuments(r.scope.bind(ctx), bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return n > 0, nil
}

func productFromDoc(mp *mongoProduct) *domain.Product {
	return &domain.Product{
		ID:          mp.ID,
		Name:        mp.Name,
		Description: mp.Description,
		Price:       mp.Price,
		Stock:       mp.Stock,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
}

func docFromProduct(p *domain.Product) *mongoProduct {
	return &mongoProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
