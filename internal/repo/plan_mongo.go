package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// PlanCollection is the MongoDB collection holding plan documents.
const PlanCollection = "seminar_plans"

// mongoPlan is the stored document shape. Row tables are embedded arrays.
type mongoPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Session      string             `bson:"session"`
	Objective    string             `bson:"objective"`
	DateTime     string             `bson:"datetime"`
	Location     string             `bson:"location"`
	Attendees    string             `bson:"attendees"`
	TimeSchedule []domain.TimeSlot  `bson:"time_schedule"`
	AttendeeList []domain.Attendee  `bson:"attendee_list"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (m mongoPlan) toDomain() domain.Plan {
	p := domain.Plan{
		ID:           m.ID.Hex(),
		Session:      m.Session,
		Objective:    m.Objective,
		DateTime:     m.DateTime,
		Location:     m.Location,
		Attendees:    m.Attendees,
		TimeSchedule: m.TimeSchedule,
		AttendeeList: m.AttendeeList,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	return p.Normalize()
}

// mongoPlanRepo is the MongoDB implementation of PlanRepo.
type mongoPlanRepo struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoPlanRepo constructs a PlanRepo over the given collection.
// Call EnsureMongoIndexes once at startup so key conflicts are detected.
func NewMongoPlanRepo(coll *mongo.Collection) PlanRepo {
	return &mongoPlanRepo{coll: coll, now: time.Now}
}

// EnsureMongoIndexes creates the partial unique index on (session, datetime)
// and the created_at index used for listing. It is idempotent.
func EnsureMongoIndexes(ctx context.Context, coll *mongo.Collection) error {
	nonEmpty := bson.M{"$gt": ""}
	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session", Value: 1}, {Key: "datetime", Value: 1}},
			Options: options.Index().
				SetName("seminar_plans_key_uq").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"session": nonEmpty, "datetime": nonEmpty}),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("seminar_plans_created_at_idx"),
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("repo.EnsureMongoIndexes: %w", err)
	}
	return nil
}

func (r *mongoPlanRepo) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	plan = plan.Normalize()
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := mongoPlan{
		Session:      plan.Session,
		Objective:    plan.Objective,
		DateTime:     plan.DateTime,
		Location:     plan.Location,
		Attendees:    plan.Attendees,
		TimeSchedule: plan.TimeSchedule,
		AttendeeList: plan.AttendeeList,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.MongoPlanRepo.Create: %w", mapMongoError(err))
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.Plan{}, fmt.Errorf("repo.MongoPlanRepo.Create: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *mongoPlanRepo) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.MongoPlanRepo.GetByID: %w", domain.ErrNotFound)
	}

	var doc mongoPlan
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.Plan{}, fmt.Errorf("repo.MongoPlanRepo.GetByID: %w", mapMongoError(err))
	}
	return doc.toDomain(), nil
}

func (r *mongoPlanRepo) List(ctx context.Context) ([]domain.Plan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("repo.MongoPlanRepo.List: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPlan
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repo.MongoPlanRepo.List: decode: %w", err)
	}

	plans := make([]domain.Plan, 0, len(docs))
	for _, d := range docs {
		plans = append(plans, d.toDomain())
	}
	return plans, nil
}

func (r *mongoPlanRepo) Update(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	oid, err := primitive.ObjectIDFromHex(plan.ID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.MongoPlanRepo.Update: %w", domain.ErrNotFound)
	}
	plan = plan.Normalize()

	update := bson.M{"$set": bson.M{
		"session":       plan.Session,
		"objective":     plan.Objective,
		"datetime":      plan.DateTime,
		"location":      plan.Location,
		"attendees":     plan.Attendees,
		"time_schedule": plan.TimeSchedule,
		"attendee_list": plan.AttendeeList,
		"updated_at":    r.now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoPlan
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return domain.Plan{}, fmt.Errorf("repo.MongoPlanRepo.Update: %w", mapMongoError(err))
	}
	return doc.toDomain(), nil
}

func (r *mongoPlanRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("repo.MongoPlanRepo.Delete: %w", domain.ErrNotFound)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("repo.MongoPlanRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("repo.MongoPlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// mapMongoError translates driver errors into domain sentinels.
func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: session and datetime already used by another plan", domain.ErrConflict)
	}
	return err
}
