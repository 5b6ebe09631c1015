package repository

import (
	"context"
	"strconv"
	"time"

	"nodosml-tf/internal/db"
	"nodosml-tf/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingRepository es el rating store externo: dado un usuario devuelve su
// mapa movieId -> rating, y permite upsert/delete. Unicidad (user, movie)
// garantizada por el upsert.
type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{col: db.DB().Collection("ratings")}
}

func (r *RatingRepository) UpsertRating(ctx context.Context, userID, movieID int, rating float64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"userId": userID, "movieId": movieID},
		bson.M{"$set": bson.M{
			"rating": rating,
			// guardamos epoch (int64)
			"timestamp": time.Now().Unix(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteRating borra el rating; devuelve false si no existía.
func (r *RatingRepository) DeleteRating(ctx context.Context, userID, movieID int) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "movieId": movieID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *RatingRepository) GetOne(ctx context.Context, userID, movieID int) (*models.RatingDoc, error) {
	var rd models.RatingDoc
	err := r.col.FindOne(ctx, bson.M{"userId": userID, "movieId": movieID}).Decode(&rd)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *RatingRepository) GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"userId": userID},
		options.Find().
			SetLimit(int64(limit)).
			SetSkip(int64(offset)).
			SetSort(bson.D{{Key: "movieId", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RatingDoc
	for cur.Next(ctx) {
		var rd models.RatingDoc
		if err := cur.Decode(&rd); err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, cur.Err()
}

func (r *RatingRepository) GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return r.GetByUser(ctx, userID, 10000, 0)
}

// GetRatingsMap devuelve los ratings del usuario con el contrato del
// rating store: movieId como string -> rating.
func (r *RatingRepository) GetRatingsMap(ctx context.Context, userID int) (map[string]float64, error) {
	docs, err := r.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(docs))
	for _, d := range docs {
		out[strconv.Itoa(d.MovieID)] = d.Rating
	}
	return out, nil
}
