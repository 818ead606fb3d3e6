package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "slotline/internal/catalog/errors"
	"slotline/pkg/config"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Services"

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindByName(ctx context.Context, name string) (*model.Service, error)
	FindByType(ctx context.Context, serviceType model.ServiceType) ([]*model.Service, error)
	FindAll(ctx context.Context) ([]*model.Service, error)
}

type serviceDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Description     string             `bson:"description"`
	DurationMinutes int                `bson:"duration_minutes"`
	Price           *float64           `bson:"price,omitempty"`
	Type            string             `bson:"type"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toDoc(svc *model.Service) (*serviceDoc, error) {
	doc := &serviceDoc{
		Name:            svc.Name,
		Description:     svc.Description,
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Type:            string(svc.Type),
		CreatedAt:       svc.CreatedAt,
		UpdatedAt:       svc.UpdatedAt,
	}
	if svc.ID != "" {
		oid, err := primitive.ObjectIDFromHex(svc.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, svc.ID)
		}
		doc.ID = oid
	}
	return doc, nil
}

func fromDoc(doc *serviceDoc) (*model.Service, error) {
	serviceType, err := model.ParseServiceType(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", doc.ID.Hex(), err)
	}
	return &model.Service{
		ID:              doc.ID.Hex(),
		Name:            doc.Name,
		Description:     doc.Description,
		DurationMinutes: doc.DurationMinutes,
		Price:           doc.Price,
		Type:            serviceType,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}, nil
}

type mongoServiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoServiceRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoServiceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc, err := toDoc(svc)
	if err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		svc.ID = oid.Hex()
	}
	return nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoServiceRepository) FindByName(ctx context.Context, name string) (*model.Service, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoServiceRepository) findOne(ctx context.Context, filter bson.M) (*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc serviceDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return fromDoc(&doc)
}

func (r *mongoServiceRepository) FindByType(ctx context.Context, serviceType model.ServiceType) ([]*model.Service, error) {
	return r.findMany(ctx, bson.M{"type": string(serviceType)})
}

func (r *mongoServiceRepository) FindAll(ctx context.Context) ([]*model.Service, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *mongoServiceRepository) findMany(ctx context.Context, filter bson.M) ([]*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*serviceDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}

	services := make([]*model.Service, 0, len(docs))
	for _, doc := range docs {
		svc, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, nil
}
