package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/siravitrin-eng/the-pos-67079349/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrAccessDenied marks a store-level access-control rejection.
	ErrAccessDenied = errors.New("access denied by backing store")
)

// ChangeListener receives a notification for every remote change to the
// product collection. The payload carries no diff; consumers re-read the
// full snapshot.
type ChangeListener func()

// ProductRepository is the data-access boundary for the product collection.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) (string, error)
	Update(ctx context.Context, id string, p *models.Product) error
	Delete(ctx context.Context, id string) error
	// DeleteMany removes all given ids as one atomic batch.
	DeleteMany(ctx context.Context, ids []string) error
	// Watch blocks, invoking onChange for every collection change until
	// ctx is cancelled. A terminal subscription failure is returned;
	// access-control denials are wrapped with ErrAccessDenied.
	Watch(ctx context.Context, onChange ChangeListener) error
}

type MongoProductRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoProductRepository(client *mongo.Client, db *mongo.Database, collection string) *MongoProductRepository {
	return &MongoProductRepository{
		client: client,
		coll:   db.Collection(collection),
	}
}

// FindAll returns the whole collection ordered by creation time, newest
// first. There is no pagination; the full snapshot is always materialized.
func (r *MongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify(err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toModel())
	}
	return products, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var doc productDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, classify(err)
	}
	p := doc.toModel()
	return &p, nil
}

func (r *MongoProductRepository) Insert(ctx context.Context, p *models.Product) (string, error) {
	doc := fromModel(p)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", classify(err)
	}
	return doc.ID.Hex(), nil
}

// Update overwrites every editable field of the record. Fields are
// replaced wholesale by id, never patched by diff, so no concurrency
// token is needed.
func (r *MongoProductRepository) Update(ctx context.Context, id string, p *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":    p.Title,
		"price":    p.Price,
		"unit":     p.Unit,
		"detail":   p.Detail,
		"image":    p.Image,
		"category": p.Category,
		"status":   p.Status,
	}}

	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return classify(err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteMany removes the given ids inside a single transaction so the
// batch is all-or-nothing.
func (r *MongoProductRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return ErrProductNotFound
		}
		oids = append(oids, oid)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return classify(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.coll.DeleteMany(sc, bson.M{"_id": bson.M{"$in": oids}})
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// Watch opens a change stream on the collection and calls onChange for
// every event. It returns when ctx is cancelled or the stream fails.
func (r *MongoProductRepository) Watch(ctx context.Context, onChange ChangeListener) error {
	stream, err := r.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return classify(err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		onChange()
	}
	if err := stream.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return classify(err)
	}
	return ctx.Err()
}

// classify wraps MongoDB access-control rejections with ErrAccessDenied
// so callers can distinguish a denied catalog from an unavailable one.
func classify(err error) error {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 13 {
		return errors.Join(ErrAccessDenied, err)
	}
	return err
}

// productDoc is the persistence shape; the hex object id becomes the
// model's string identifier.
type productDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Price     float64            `bson:"price"`
	Unit      string             `bson:"unit"`
	Detail    string             `bson:"detail"`
	Image     string             `bson:"image"`
	Category  models.Category    `bson:"category"`
	Status    models.Status      `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d productDoc) toModel() models.Product {
	return models.Product{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Price:     d.Price,
		Unit:      d.Unit,
		Detail:    d.Detail,
		Image:     d.Image,
		Category:  d.Category,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
}

func fromModel(p *models.Product) productDoc {
	return productDoc{
		Title:    p.Title,
		Price:    p.Price,
		Unit:     p.Unit,
		Detail:   p.Detail,
		Image:    p.Image,
		Category: p.Category,
		Status:   p.Status,
	}
}
