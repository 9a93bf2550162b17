package models

type User struct {
	ID    string `json:"user_id" bson:"_id"`
	Name  string `json:"name,omitempty" bson:"name"`
	Email string `json:"email" bson:"email"`
}
