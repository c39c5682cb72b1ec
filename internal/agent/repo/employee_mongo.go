package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

const embeddingPath = "embedding"

// EmployeeRepository is the employee record store backed by a MongoDB
// collection with an Atlas vector search index on the embedding field.
type EmployeeRepository struct {
	coll        *mongo.Collection
	vectorIndex string
}

func NewEmployeeRepository(coll *mongo.Collection, vectorIndex string) *EmployeeRepository {
	return &EmployeeRepository{coll: coll, vectorIndex: vectorIndex}
}

// EnsureIndexes creates the unique employee_id index and, when dimensions is
// positive, the vector search index. Vector index failures are logged only:
// non-Atlas deployments do not support search indexes.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context, dimensions int) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "employee_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create employee_id index: %w", err)
	}
	if dimensions <= 0 {
		return nil
	}

	_, err = r.coll.SearchIndexes().CreateOne(ctx, mongo.SearchIndexModel{
		Definition: bson.D{{Key: "fields", Value: bson.A{
			bson.D{
				{Key: "type", Value: "vector"},
				{Key: "path", Value: embeddingPath},
				{Key: "numDimensions", Value: dimensions},
				{Key: "similarity", Value: "cosine"},
			},
		}}},
		Options: options.SearchIndexes().SetName(r.vectorIndex).SetType("vectorSearch"),
	})
	if err != nil {
		logx.Warn().Err(err).Str("index", r.vectorIndex).Msg("vector search index not created")
	}
	return nil
}

func byID(employeeID string) bson.M { return bson.M{"employee_id": employeeID} }

// recordProjection hides derived fields from reads that do not need them.
var recordProjection = bson.M{"_id": 0, "embedding": 0}

func (r *EmployeeRepository) FindByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var e model.Employee
	err := r.coll.FindOne(ctx, byID(employeeID), options.FindOne().SetProjection(recordProjection)).Decode(&e)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logx.Error().Err(err).Str("employee_id", employeeID).Msg("failed to load employee")
		}
		return nil, errx.WrapMongo(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Exists(ctx context.Context, employeeID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, byID(employeeID), options.Count().SetLimit(1))
	if err != nil {
		return false, errx.WrapMongo(err)
	}
	return n > 0, nil
}

func (r *EmployeeRepository) Insert(ctx context.Context, employee *model.Employee) error {
	if _, err := r.coll.InsertOne(ctx, employee); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errx.Conflict(err, fmt.Sprintf("employee %s already exists", employee.EmployeeID))
		}
		logx.Error().Err(err).Str("employee_id", employee.EmployeeID).Msg("failed to insert employee")
		return errx.WrapMongo(err)
	}
	return nil
}

// UpdateFields applies a single $set. An unmatched id returns errx.ErrNotFound.
func (r *EmployeeRepository) UpdateFields(ctx context.Context, employeeID string, fields map[string]any) error {
	res, err := r.coll.UpdateOne(ctx, byID(employeeID), bson.M{"$set": fields})
	if err != nil {
		logx.Error().Err(err).Str("employee_id", employeeID).Msg("failed to update employee")
		return errx.WrapMongo(err)
	}
	if res.MatchedCount == 0 {
		return errx.WrapMongo(mongo.ErrNoDocuments)
	}
	return nil
}

// VectorSearchPipeline ranks records by similarity to vector and returns the
// top n with their score. Derived fields are dropped from the output.
func VectorSearchPipeline(index string, vector []float32, n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "path", Value: embeddingPath},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: n * 10},
			{Key: "limit", Value: n},
		}}},
		{{Key: "$set", Value: bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}}}}},
		{{Key: "$unset", Value: bson.A{"_id", embeddingPath}}},
	}
}

func (r *EmployeeRepository) SimilaritySearch(ctx context.Context, vector []float32, n int) ([]model.ScoredEmployee, error) {
	cur, err := r.coll.Aggregate(ctx, VectorSearchPipeline(r.vectorIndex, vector, n))
	if err != nil {
		logx.Error().Err(err).Str("index", r.vectorIndex).Msg("vector search failed")
		return nil, errx.WrapMongo(err)
	}
	defer cur.Close(ctx)

	hits := make([]model.ScoredEmployee, 0, n)
	if err := cur.All(ctx, &hits); err != nil {
		return nil, errx.WrapMongo(err)
	}
	return hits, nil
}

// List returns every full record, derived fields included.
func (r *EmployeeRepository) List(ctx context.Context) ([]model.Employee, error) {
	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"_id": 0}).
			SetSort(bson.D{{Key: "employee_id", Value: 1}}),
	)
	if err != nil {
		logx.Error().Err(err).Msg("failed to list employees")
		return nil, errx.WrapMongo(err)
	}
	defer cur.Close(ctx)

	out := make([]model.Employee, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errx.WrapMongo(err)
	}
	return out, nil
}
