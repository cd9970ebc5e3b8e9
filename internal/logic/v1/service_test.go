package v1

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/customer-service/internal/core/domain"
)

// fakeCustomerRepo is an in-memory domain.CustomerRepository. It hands
// out ids the way the database would: on save, the customer and any
// new children get one.
type fakeCustomerRepo struct {
	customers map[int]*domain.Customer
	nextID    int
	saveErr   error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int]*domain.Customer{}, nextID: 1}
}

func (r *fakeCustomerRepo) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	all := make([]*domain.Customer, 0, len(r.customers))
	for id := 1; id < r.nextID; id++ {
		if c, ok := r.customers[id]; ok {
			all = append(all, c)
		}
	}
	return all, nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("find customer %d: %w", id, domain.ErrCustomerNotFound)
	}
	return c, nil
}

func (r *fakeCustomerRepo) Save(ctx context.Context, customer *domain.Customer) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if customer.ID == 0 {
		customer.ID = r.nextID
		r.nextID++
	}
	for _, e := range customer.Emails {
		if e.ID == 0 {
			e.ID = r.nextID
			r.nextID++
		}
	}
	for _, p := range customer.PhoneNumbers {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		}
	}
	if customer.Address != nil && customer.Address.ID == 0 {
		customer.Address.ID = r.nextID
		r.nextID++
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, customer *domain.Customer) error {
	delete(r.customers, customer.ID)
	return nil
}

func strPtr(s string) *string { return &s }

func validPayload() *domain.CustomerPayload {
	return &domain.CustomerPayload{
		FirstName:    strPtr("Jane"),
		LastName:     strPtr("Doe"),
		Emails:       []domain.EmailPayload{{Email: "jane@x.com"}},
		PhoneNumbers: []domain.PhoneNumberPayload{{PhoneNumber: "+15551234567"}},
		Address: &domain.AddressPayload{
			Street: "Main St", Apartment: "4B", City: "Metro", Country: "US", ZipCode: "10001",
		},
	}
}

var (
	owner    = domain.Principal{ID: 1, Roles: []string{domain.RoleUser}}
	stranger = domain.Principal{ID: 2, Roles: []string{domain.RoleUser}}
	admin    = domain.Principal{ID: 3, Roles: []string{domain.RoleAdmin, domain.RoleUser}}
)

func TestCreateCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)

	customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	assert.NotZero(t, customer.ID)
	assert.Equal(t, owner.ID, customer.OwnerID)
	assert.Equal(t, "Jane", customer.FirstName)

	stored, err := service.GetCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer, stored)
}

func TestCreateCustomerValidationFailure(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)

	payload := validPayload()
	payload.FirstName = strPtr("John!")

	_, err := service.CreateCustomer(context.Background(), payload, owner)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Messages(), "The first name has forbidden symbols")
	assert.Empty(t, repo.customers, "nothing may be persisted on validation failure")
}

func TestCreateCustomerMalformedPayload(t *testing.T) {
	service := NewCustomerService(newFakeCustomerRepo())

	_, err := service.CreateCustomer(context.Background(), &domain.CustomerPayload{}, owner)

	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestGetCustomerNotFound(t *testing.T) {
	service := NewCustomerService(newFakeCustomerRepo())

	_, err := service.GetCustomer(context.Background(), 999)

	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestUpdateCustomerAuthorization(t *testing.T) {
	tests := []struct {
		name      string
		principal domain.Principal
		wantErr   error
	}{
		{"owner may update", owner, nil},
		{"admin may update", admin, nil},
		{"stranger is rejected", stranger, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeCustomerRepo()
			service := NewCustomerService(repo)
			customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
			require.NoError(t, err)

			payload := validPayload()
			payload.FirstName = strPtr("Janet")

			updated, err := service.UpdateCustomer(context.Background(), customer.ID, payload, tt.principal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Janet", updated.FirstName)
		})
	}
}

func TestUpdateCustomerIsAdditiveForCollections(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)
	customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	payload := validPayload()
	payload.Emails = []domain.EmailPayload{{Email: "second@x.com"}, {Email: "jane@x.com"}}
	payload.PhoneNumbers = nil

	updated, err := service.UpdateCustomer(context.Background(), customer.ID, payload, owner)
	require.NoError(t, err)

	// The existing email and phone stay; only the new unique email is added.
	assert.Len(t, updated.Emails, 2)
	assert.Len(t, updated.PhoneNumbers, 1)
}

func TestUpdateCustomerNilPayloadGateOrder(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)
	customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	tests := []struct {
		name      string
		id        int
		principal domain.Principal
		wantErr   error
	}{
		{"missing customer wins over nil payload", 999, owner, domain.ErrCustomerNotFound},
		{"forbidden wins over nil payload", customer.ID, stranger, domain.ErrForbidden},
		{"nil payload on own customer", customer.ID, owner, domain.ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateCustomer(context.Background(), tt.id, nil, tt.principal)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateCustomerNotFound(t *testing.T) {
	service := NewCustomerService(newFakeCustomerRepo())

	_, err := service.UpdateCustomer(context.Background(), 999, validPayload(), owner)

	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)
	customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	require.NoError(t, service.DeleteCustomer(context.Background(), customer.ID, owner))

	_, err = service.GetCustomer(context.Background(), customer.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestDeleteCustomerForbidden(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)
	customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	err = service.DeleteCustomer(context.Background(), customer.ID, stranger)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, repo.customers, 1)
}

func TestDeleteCustomerAsAdmin(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)
	customer, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	assert.NoError(t, service.DeleteCustomer(context.Background(), customer.ID, admin))
}

func TestListCustomers(t *testing.T) {
	repo := newFakeCustomerRepo()
	service := NewCustomerService(repo)

	first, err := service.CreateCustomer(context.Background(), validPayload(), owner)
	require.NoError(t, err)

	second := validPayload()
	second.Emails = []domain.EmailPayload{{Email: "john@x.com"}}
	second.FirstName = strPtr("John")
	_, err = service.CreateCustomer(context.Background(), second, stranger)
	require.NoError(t, err)

	customers, err := service.ListCustomers(context.Background())
	require.NoError(t, err)

	require.Len(t, customers, 2)
	assert.Equal(t, first.ID, customers[0].ID)
}
