package session

import "ratlist/internal/models"

// Identity is the minimal user record kept in the session store.
type Identity struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Name     string `json:"name" bson:"name"`
}

// Serialize reduces a user to the identity persisted for its session.
func Serialize(user *models.User) Identity {
	return Identity{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.DisplayName(),
	}
}

// Deserialize returns the stored identity as-is. The user collection is not
// consulted, so users removed after login keep their session until it expires.
func Deserialize(identity Identity) Identity {
	return identity
}
