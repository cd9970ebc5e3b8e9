package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() *Customer {
	c := NewCustomer(1)
	c.FirstName = "Jane"
	c.LastName = "Doe"
	c.AddEmail(&Email{Email: "jane@x.com"})
	c.AddPhoneNumber(&PhoneNumber{PhoneNumber: "+15551234567"})
	c.SetAddress(&Address{
		Street:    "Main St",
		Apartment: "4B",
		City:      "Metro",
		Country:   "US",
		ZipCode:   "10001",
	})
	return c
}

func TestAddEmailIsIdempotent(t *testing.T) {
	c := NewCustomer(1)

	c.AddEmail(&Email{Email: "jane@x.com"})
	c.AddEmail(&Email{Email: "jane@x.com"})

	assert.Len(t, c.Emails, 1)
}

func TestAddEmailKeepsDistinctValues(t *testing.T) {
	c := NewCustomer(1)

	c.AddEmail(&Email{Email: "jane@x.com"})
	c.AddEmail(&Email{Email: "jane@y.com"})

	assert.Len(t, c.Emails, 2)
}

func TestRemoveEmail(t *testing.T) {
	c := NewCustomer(1)
	c.AddEmail(&Email{Email: "jane@x.com"})
	c.AddEmail(&Email{Email: "jane@y.com"})

	c.RemoveEmail(&Email{Email: "jane@x.com"})

	require.Len(t, c.Emails, 1)
	assert.Equal(t, "jane@y.com", c.Emails[0].Email)

	// Removing an absent value is a no-op.
	c.RemoveEmail(&Email{Email: "nobody@x.com"})
	assert.Len(t, c.Emails, 1)
}

func TestAddPhoneNumberIsIdempotent(t *testing.T) {
	c := NewCustomer(1)

	c.AddPhoneNumber(&PhoneNumber{PhoneNumber: "+123456"})
	c.AddPhoneNumber(&PhoneNumber{PhoneNumber: "+123456"})

	assert.Len(t, c.PhoneNumbers, 1)
}

func TestRemovePhoneNumber(t *testing.T) {
	c := NewCustomer(1)
	c.AddPhoneNumber(&PhoneNumber{PhoneNumber: "+123456"})

	c.RemovePhoneNumber(&PhoneNumber{PhoneNumber: "+123456"})

	assert.Empty(t, c.PhoneNumbers)
}

func TestSetAddressSetsBackReference(t *testing.T) {
	c := NewCustomer(1)
	c.ID = 42

	c.SetAddress(&Address{Street: "Main St"})

	require.NotNil(t, c.Address)
	assert.Equal(t, 42, c.Address.CustomerID)
}

func TestValidateAcceptsValidCustomer(t *testing.T) {
	assert.Empty(t, validCustomer().Validate())
}

func TestValidateFirstName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		message   string
	}{
		{"forbidden symbols", "John!", "The first name has forbidden symbols"},
		{"too short", "J", "Your first name must be at least 2 characters long"},
		{"empty", "", "Your first name must be at least 2 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			c.FirstName = tt.firstName

			violations := c.Validate()

			require.NotEmpty(t, violations)
			assert.Equal(t, "firstName", violations[0].Field)
			assert.Contains(t, messagesOf(violations), tt.message)
		})
	}
}

func TestValidateLastName(t *testing.T) {
	c := validCustomer()
	c.LastName = "Doe?"

	violations := c.Validate()

	require.Len(t, violations, 1)
	assert.Equal(t, "The last name has forbidden symbols", violations[0].Message)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		valid   bool
		message string
	}{
		{"valid", "a@b.co", true, ""},
		{"too short", "ab", false, "Your email must be at least 5 characters long"},
		{"not an email", "not-an-email", false, "The email 'not-an-email' is not a valid email."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Email{Email: tt.email}

			violations := e.Validate()

			if tt.valid {
				assert.Empty(t, violations)
				return
			}
			require.NotEmpty(t, violations)
			assert.Contains(t, messagesOf(violations), tt.message)
		})
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+123456", true},
		{"123456", true},
		{"1234567890123456", true},
		{"12", false},
		{"abc1234", false},
		{"+1234567890123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			violations := (&PhoneNumber{PhoneNumber: tt.phone}).Validate()
			if tt.valid {
				assert.Empty(t, violations)
			} else {
				require.Len(t, violations, 1)
				assert.Equal(t, "The phone number has forbidden symbols", violations[0].Message)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Address)
		message string
	}{
		{"street symbols", func(a *Address) { a.Street = "Main St #5" }, "The street name has forbidden symbols"},
		{"apartment symbols", func(a *Address) { a.Apartment = "4/B" }, "The apartment name has forbidden symbols"},
		{"city symbols", func(a *Address) { a.City = "New York" }, "The city name has forbidden symbols"},
		{"country lowercase", func(a *Address) { a.Country = "us" }, "The country name has forbidden symbols"},
		{"country too long", func(a *Address) { a.Country = "USA" }, "Your country name cannot be longer than 2 characters"},
		{"zip letters", func(a *Address) { a.ZipCode = "1000a" }, "The zip code has forbidden symbols"},
		{"zip too short", func(a *Address) { a.ZipCode = "1" }, "Your zip code must be at least 2 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c.Address)

			assert.Contains(t, messagesOf(c.Validate()), tt.message)
		})
	}
}

func TestValidateRequiresAddress(t *testing.T) {
	c := validCustomer()
	c.Address = nil

	violations := c.Validate()

	require.Len(t, violations, 1)
	assert.Equal(t, "Please add address properties", violations[0].Message)
}

func TestValidateCascadesIntoChildren(t *testing.T) {
	c := validCustomer()
	c.AddEmail(&Email{Email: "ab"})
	c.AddPhoneNumber(&PhoneNumber{PhoneNumber: "12"})

	messages := messagesOf(c.Validate())

	assert.Contains(t, messages, "Your email must be at least 5 characters long")
	assert.Contains(t, messages, "The phone number has forbidden symbols")
}

func messagesOf(violations []Violation) []string {
	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		messages = append(messages, v.Message)
	}
	return messages
}
