package domain

// User is a user directory record. The plaintext password field is a
// documented placeholder, not a security mechanism.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"createdAt"`
}

// Identity is the signed-in user's session-visible profile. It never carries
// the password.
type Identity struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Identity strips the directory record down to its session profile.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Phone: u.Phone}
}
