package models

// ProviderRole is the users.role value that marks a doctor.
const ProviderRole = "doctor"

// Provider is the public view of a doctor account.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserProfile is the subset of a users document this service reads.
type UserProfile struct {
	ID          string `firestore:"-" bson:"id" json:"id"`
	Name        string `firestore:"name" bson:"name" json:"name"`
	DisplayName string `firestore:"displayName" bson:"displayName" json:"displayName"`
	Role        string `firestore:"role" bson:"role" json:"role"`
	FCMToken    string `firestore:"fcmToken" bson:"fcmToken" json:"-"`
}

// PublicName resolves the name shown to patients: name, then displayName, then "Doctor".
func (u UserProfile) PublicName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return "Doctor"
}
