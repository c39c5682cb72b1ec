package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// checkpointDocument holds the whole ordered history of one thread.
type checkpointDocument struct {
	ThreadID  string     `bson:"_id"`
	Messages  []bson.Raw `bson:"messages"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// MongoConversationRepository keeps one document per thread and appends with
// $push/$each, which is atomic for a single document.
type MongoConversationRepository struct {
	coll *mongo.Collection
}

func NewMongoConversationRepository(coll *mongo.Collection) *MongoConversationRepository {
	return &MongoConversationRepository{coll: coll}
}

func (r *MongoConversationRepository) AppendMessages(ctx context.Context, conversationID string, messages ...*schema.Message) error {
	if len(messages) == 0 {
		return nil
	}
	docs := make([]bson.D, 0, len(messages))
	for _, m := range messages {
		doc, err := toBSON(m)
		if err != nil {
			logx.Error().Err(err).Str("conversationID", conversationID).Msg("failed to encode message")
			return err
		}
		docs = append(docs, doc)
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{
			"$push": bson.M{"messages": bson.M{"$each": docs}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		logx.Error().Err(err).Str("conversationID", conversationID).Msg("failed to append checkpoint")
		return errx.WrapMongo(err)
	}
	return nil
}

func (r *MongoConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	var doc checkpointDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &model.ConversationHistory{ConversationID: conversationID, Messages: []*schema.Message{}}, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("conversationID", conversationID).Msg("failed to load checkpoint")
		return nil, errx.WrapMongo(err)
	}

	msgs := make([]*schema.Message, 0, len(doc.Messages))
	for i, raw := range doc.Messages {
		m, err := fromBSON(raw)
		if err != nil {
			logx.Error().Err(err).Str("conversationID", conversationID).Int("index", i).Msg("failed to decode message")
			return nil, fmt.Errorf("decode message at index %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

// toBSON stores messages in their JSON shape so both backends share one layout.
func toBSON(m *schema.Message) (bson.D, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(b, false, &doc); err != nil {
		return nil, fmt.Errorf("convert message to bson: %w", err)
	}
	return doc, nil
}

func fromBSON(raw bson.Raw) (*schema.Message, error) {
	b, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, err
	}
	var m schema.Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

var _ model.ConversationRepository = (*MongoConversationRepository)(nil)
