package domain

import "context"

// CustomerRepository loads and stores the full customer aggregate.
// Save and Delete cover the customer and all of its children in one
// transaction; there is no change tracking, mutations are explicit
// and persistence is an explicit call.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)
	FindByID(ctx context.Context, id int) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, customer *Customer) error
}

// UserRepository defines the interface for user account access.
type UserRepository interface {
	FindByID(ctx context.Context, id int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}
