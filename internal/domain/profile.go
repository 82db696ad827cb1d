package domain

import "context"

type Profile struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProfileGateway interface {
	GetProfile(ctx context.Context) (*Profile, error)
}
