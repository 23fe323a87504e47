package service

const RoleAdmin = "admin"

// Actor is the authenticated caller. ArtistID is zero for accounts that
// are not artists.
type Actor struct {
	UserID   string
	ArtistID int64
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Owns reports whether the actor may modify content owned by artistID.
func (a Actor) Owns(artistID int64) bool {
	return a.IsAdmin() || (a.ArtistID != 0 && a.ArtistID == artistID)
}
