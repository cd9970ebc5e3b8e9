package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestApplyRequiresNames(t *testing.T) {
	tests := []struct {
		name    string
		payload CustomerPayload
	}{
		{"missing first name", CustomerPayload{LastName: strPtr("Doe")}},
		{"missing last name", CustomerPayload{FirstName: strPtr("Jane")}},
		{"empty payload", CustomerPayload{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Apply(NewCustomer(1))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestApplyPopulatesCustomer(t *testing.T) {
	payload := CustomerPayload{
		FirstName:    strPtr("Jane"),
		LastName:     strPtr("Doe"),
		Emails:       []EmailPayload{{Email: "jane@x.com"}},
		PhoneNumbers: []PhoneNumberPayload{{PhoneNumber: "+15551234567"}},
		Address: &AddressPayload{
			Street: "Main St", Apartment: "4B", City: "Metro", Country: "US", ZipCode: "10001",
		},
	}

	c := NewCustomer(7)
	require.NoError(t, payload.Apply(c))

	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "Doe", c.LastName)
	assert.Equal(t, 7, c.OwnerID)
	require.Len(t, c.Emails, 1)
	require.Len(t, c.PhoneNumbers, 1)
	require.NotNil(t, c.Address)
	assert.Equal(t, "Main St", c.Address.Street)
}

func TestApplyIsAdditiveForCollections(t *testing.T) {
	c := NewCustomer(1)
	c.AddEmail(&Email{ID: 10, Email: "old@x.com"})
	c.AddPhoneNumber(&PhoneNumber{ID: 11, PhoneNumber: "+111111"})

	payload := CustomerPayload{
		FirstName:    strPtr("Jane"),
		LastName:     strPtr("Doe"),
		Emails:       []EmailPayload{{Email: "new@x.com"}, {Email: "old@x.com"}},
		PhoneNumbers: []PhoneNumberPayload{{PhoneNumber: "+222222"}},
	}
	require.NoError(t, payload.Apply(c))

	// Existing entries survive, duplicates are ignored, new ones appended.
	assert.Len(t, c.Emails, 2)
	assert.Len(t, c.PhoneNumbers, 2)
	assert.Equal(t, "old@x.com", c.Emails[0].Email)
	assert.Equal(t, "new@x.com", c.Emails[1].Email)
}

func TestApplyReplacesAddressInPlace(t *testing.T) {
	c := NewCustomer(1)
	c.SetAddress(&Address{ID: 5, Street: "Old St", Apartment: "1A", City: "Oldtown", Country: "DE", ZipCode: "99999"})

	payload := CustomerPayload{
		FirstName: strPtr("Jane"),
		LastName:  strPtr("Doe"),
		Address: &AddressPayload{
			Street: "New St", Apartment: "2B", City: "Newtown", Country: "US", ZipCode: "10001",
		},
	}
	require.NoError(t, payload.Apply(c))

	// The row identity is kept, every field is replaced.
	assert.Equal(t, 5, c.Address.ID)
	assert.Equal(t, "New St", c.Address.Street)
	assert.Equal(t, "2B", c.Address.Apartment)
	assert.Equal(t, "Newtown", c.Address.City)
}

func TestApplyKeepsAddressWhenPayloadOmitsIt(t *testing.T) {
	c := NewCustomer(1)
	c.SetAddress(&Address{ID: 5, Street: "Old St"})

	payload := CustomerPayload{FirstName: strPtr("Jane"), LastName: strPtr("Doe")}
	require.NoError(t, payload.Apply(c))

	require.NotNil(t, c.Address)
	assert.Equal(t, "Old St", c.Address.Street)
}

func TestPrincipalCanManage(t *testing.T) {
	customer := NewCustomer(1)

	owner := Principal{ID: 1, Roles: []string{RoleUser}}
	stranger := Principal{ID: 2, Roles: []string{RoleUser}}
	admin := Principal{ID: 3, Roles: []string{RoleAdmin, RoleUser}}

	assert.True(t, owner.CanManage(customer))
	assert.False(t, stranger.CanManage(customer))
	assert.True(t, admin.CanManage(customer))
}
