package models

// Snapshot is the persisted subset of the client state. IsLoggedIn is
// always derived from CurrentUser by the State Store.
type Snapshot struct {
	CurrentUser    *User    `json:"currentUser"`
	CurrentProfile *Profile `json:"currentProfile"`
	IsLoggedIn     bool     `json:"isLoggedIn"`
}

// LoadingState is transient and replaced as a whole on every change.
type LoadingState struct {
	IsLoading bool   `json:"isLoading"`
	Message   string `json:"message"`
}
