package domain

// Permissions is the closed capability set a user can hold. Each flag gates
// one class of privileged operation; everything defaults to false. The JSON
// keys are the wire format clients send and the token payload carries.
type Permissions struct {
	UpdateUsers bool `json:"UPDATE-USERS"`
	DeleteUsers bool `json:"DELETE-USERS"`
	CreateBooks bool `json:"CREATE-BOOKS"`
	UpdateBooks bool `json:"UPDATE-BOOKS"`
	DeleteBooks bool `json:"DELETE-BOOKS"`
}
