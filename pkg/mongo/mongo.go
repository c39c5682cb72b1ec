package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	URI                     string `envconfig:"MONGO_URI" required:"true"`
	Database                string `envconfig:"MONGO_DATABASE" default:"hr_database"`
	EmployeesCollection     string `envconfig:"MONGO_EMPLOYEES_COLLECTION" default:"employees"`
	CheckpointsCollection   string `envconfig:"MONGO_CHECKPOINTS_COLLECTION" default:"checkpoints"`
	VectorIndex             string `envconfig:"MONGO_VECTOR_INDEX" default:"vector_index"`
	VectorDimensions        int    `envconfig:"MONGO_VECTOR_DIMENSIONS" default:"1536"`
	MaxPoolSize             uint64 `envconfig:"MONGO_MAX_POOL_SIZE" default:"50"`
	ConnectTimeoutSeconds   int    `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10"`
	ServerSelectTimeoutSecs int    `envconfig:"MONGO_SERVER_SELECTION_TIMEOUT" default:"5"`
}

// New connects to MongoDB and verifies the primary is reachable.
func (c *Config) New(ctx context.Context) (*mongo.Client, error) {
	connectTimeout := time.Duration(c.ConnectTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.URI).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(time.Duration(c.ServerSelectTimeoutSecs) * time.Second).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}
