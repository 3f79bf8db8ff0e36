package schema

// RestaurantProfile is read-only context for prompt construction. Profile
// mutation belongs to the profile-edit surfaces, not the assistant.
type RestaurantProfile struct {
	Name        string `json:"name" bson:"name"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Address     string `json:"address" bson:"address"`
	Description string `json:"description" bson:"description"`
}

// UserIdentity is the signed-in user as stored in the local cache.
type UserIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LinkedUser is a staff account linked to a restaurant.
type LinkedUser struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}
