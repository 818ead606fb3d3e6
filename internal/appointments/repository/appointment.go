package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	appterrors "slotline/internal/appointments/errors"
	"slotline/pkg/config"
	mongotx "slotline/pkg/db/mongo"
	"slotline/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "Appointments"

// ListFilter narrows FindAllFiltered. Nil fields match everything. A date
// range matches appointments whose slot overlaps it, using the same open
// boundary rule as slot conflict checks.
type ListFilter struct {
	Status     *model.AppointmentStatus
	ServiceIDs []string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int64
}

type AppointmentRepository interface {
	Save(ctx context.Context, appt *model.Appointment) error
	Update(ctx context.Context, appt *model.Appointment) error
	FindByViewToken(ctx context.Context, token string) (*model.Appointment, error)
	FindByCancellationToken(ctx context.Context, token string) (*model.Appointment, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Appointment, error)
	FindScheduledBetween(ctx context.Context, start, end time.Time, serviceIDs []string) ([]*model.Appointment, error)
	FindScheduledBetweenForUser(ctx context.Context, userID string, start, end time.Time) ([]*model.Appointment, error)
	FindScheduledStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	FindAllFiltered(ctx context.Context, filter ListFilter) ([]*model.Appointment, int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// appointmentDoc is the persisted shape. The slot is flattened into two
// indexed timestamps so range queries stay on plain fields; the domain
// TimeSlot is rebuilt on read.
type appointmentDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	UserID            string             `bson:"user_id"`
	ServiceID         string             `bson:"service_id"`
	ScheduledStart    time.Time          `bson:"scheduled_start"`
	ScheduledEnd      time.Time          `bson:"scheduled_end"`
	Status            string             `bson:"status"`
	ViewToken         string             `bson:"view_token"`
	CancellationToken string             `bson:"cancellation_token"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toDoc(appt *model.Appointment) (*appointmentDoc, error) {
	doc := &appointmentDoc{
		UserID:            appt.UserID,
		ServiceID:         appt.ServiceID,
		ScheduledStart:    appt.Slot.Start(),
		ScheduledEnd:      appt.Slot.End(),
		Status:            string(appt.Status),
		ViewToken:         appt.ViewToken,
		CancellationToken: appt.CancellationToken,
		CreatedAt:         appt.CreatedAt,
		UpdatedAt:         appt.UpdatedAt,
	}
	if appt.ID != "" {
		oid, err := primitive.ObjectIDFromHex(appt.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", appterrors.ErrInvalidID, appt.ID)
		}
		doc.ID = oid
	}
	return doc, nil
}

func fromDoc(doc *appointmentDoc) (*model.Appointment, error) {
	slot, err := model.NewTimeSlot(doc.ScheduledStart, doc.ScheduledEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appterrors.ErrCorruptSlot, doc.ID.Hex())
	}
	status, err := model.ParseAppointmentStatus(doc.Status)
	if err != nil {
		return nil, fmt.Errorf("appointment %s: %w", doc.ID.Hex(), err)
	}
	return &model.Appointment{
		ID:                doc.ID.Hex(),
		UserID:            doc.UserID,
		ServiceID:         doc.ServiceID,
		Slot:              slot,
		Status:            status,
		ViewToken:         doc.ViewToken,
		CancellationToken: doc.CancellationToken,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}, nil
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless it is already a
// transaction session context, which must not be re-wrapped.
func (r *mongoAppointmentRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAppointmentRepository) Save(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc, err := toDoc(appt)
	if err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to save appointment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		appt.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAppointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(appt.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", appterrors.ErrInvalidID, appt.ID)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     string(appt.Status),
			"updated_at": appt.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if result.MatchedCount == 0 {
		return appterrors.ErrNotFound
	}
	return nil
}

func (r *mongoAppointmentRepository) FindByViewToken(ctx context.Context, token string) (*model.Appointment, error) {
	return r.findOne(ctx, bson.M{"view_token": token})
}

func (r *mongoAppointmentRepository) FindByCancellationToken(ctx context.Context, token string) (*model.Appointment, error) {
	return r.findOne(ctx, bson.M{"cancellation_token": token})
}

func (r *mongoAppointmentRepository) findOne(ctx context.Context, filter bson.M) (*model.Appointment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc appointmentDoc
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appterrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}
	return fromDoc(&doc)
}

func (r *mongoAppointmentRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: 1}})
	return r.findMany(ctx, bson.M{"user_id": userID}, opts)
}

func (r *mongoAppointmentRepository) FindScheduledBetween(ctx context.Context, start, end time.Time, serviceIDs []string) ([]*model.Appointment, error) {
	filter := bson.M{
		"status":          string(model.StatusScheduled),
		"scheduled_start": bson.M{"$lt": end},
		"scheduled_end":   bson.M{"$gt": start},
	}
	if len(serviceIDs) > 0 {
		filter["service_id"] = bson.M{"$in": serviceIDs}
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: 1}})
	return r.findMany(ctx, filter, opts)
}

func (r *mongoAppointmentRepository) FindScheduledBetweenForUser(ctx context.Context, userID string, start, end time.Time) ([]*model.Appointment, error) {
	filter := bson.M{
		"user_id":         userID,
		"status":          string(model.StatusScheduled),
		"scheduled_start": bson.M{"$lt": end},
		"scheduled_end":   bson.M{"$gt": start},
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: 1}})
	return r.findMany(ctx, filter, opts)
}

func (r *mongoAppointmentRepository) FindScheduledStartingBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	filter := bson.M{
		"status":          string(model.StatusScheduled),
		"scheduled_start": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: 1}})
	return r.findMany(ctx, filter, opts)
}

func (r *mongoAppointmentRepository) FindAllFiltered(ctx context.Context, f ListFilter) ([]*model.Appointment, int64, error) {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = string(*f.Status)
	}
	if len(f.ServiceIDs) > 0 {
		filter["service_id"] = bson.M{"$in": f.ServiceIDs}
	}
	if f.DateFrom != nil {
		filter["scheduled_end"] = bson.M{"$gt": *f.DateFrom}
	}
	if f.DateTo != nil {
		filter["scheduled_start"] = bson.M{"$lt": *f.DateTo}
	}

	countCtx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()
	total, err := r.collection.CountDocuments(countCtx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	// Admin listings are newest-first.
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_start", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit)).SetSkip(f.Offset)
	}
	appointments, err := r.findMany(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *mongoAppointmentRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Appointment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*appointmentDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	appointments := make([]*model.Appointment, 0, len(docs))
	for _, doc := range docs {
		appt, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, nil
}

func (r *mongoAppointmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
