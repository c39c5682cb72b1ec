package errx

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// WrapMongo maps MongoDB errors to AppError; a missing document also matches ErrNotFound.
func WrapMongo(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return New(errors.Join(ErrNotFound, err), http.StatusNotFound, MongoNotFoundMessage).WithKind(KindNotFound)
	}

	return New(err, http.StatusBadGateway, MongoErrorMessage).WithKind(KindStore)
}
