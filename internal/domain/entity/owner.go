package entity

import "github.com/google/uuid"

// Owner is the holder of one or more accounts. Registration and profile
// management live outside this service; owners are read-only here.
type Owner struct {
	id    uuid.UUID
	name  string
	email string
}

func ReconstructOwner(id uuid.UUID, name, email string) *Owner {
	return &Owner{id: id, name: name, email: email}
}

func (o *Owner) ID() uuid.UUID {
	return o.id
}

func (o *Owner) Name() string {
	return o.name
}

func (o *Owner) Email() string {
	return o.email
}
