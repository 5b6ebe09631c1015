package models

type UserDoc struct {
	UserID          int      `json:"userId" bson:"userId"`
	Email           string   `json:"email" bson:"email"`
	Username        string   `json:"username,omitempty" bson:"username,omitempty"`
	PasswordHash    string   `json:"-" bson:"passwordHash"`
	Role            string   `json:"role" bson:"role"`
	PreferredGenres []string `json:"preferredGenres,omitempty" bson:"preferredGenres,omitempty"`
	CreatedAt       string   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       string   `json:"updatedAt" bson:"updatedAt"`
}
