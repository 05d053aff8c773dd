package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CampusCredentialsRequest carries the user's upstream dining credentials.
type CampusCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
