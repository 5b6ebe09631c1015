package models

import "time"

// RecItem es una recomendación ya unida con el catálogo.
type RecItem struct {
	MovieID int      `bson:"movieId" json:"movieId"`
	Title   string   `bson:"title"   json:"title"`
	Genres  []string `bson:"genres"  json:"genres"`
	Score   float64  `bson:"score"   json:"score"`
}

// Recommendation es el historial que guardamos en Mongo.
type Recommendation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId"        json:"userId"`
	Mode      string    `bson:"mode"          json:"mode"` // user-knn | popular
	Params    any       `bson:"params"        json:"params"`
	Items     []RecItem `bson:"items"         json:"items"`
	CreatedAt time.Time `bson:"createdAt"     json:"createdAt"`
}
