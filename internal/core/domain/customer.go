package domain

import (
	"fmt"
	"regexp"
)

// Customer is the aggregate root: names, one address, email and phone
// collections, and the owning user. It is loaded, validated and
// persisted as a single unit.
type Customer struct {
	ID           int            `json:"id"`
	FirstName    string         `json:"firstName"`
	LastName     string         `json:"lastName"`
	Emails       []*Email       `json:"emails"`
	PhoneNumbers []*PhoneNumber `json:"phoneNumbers"`
	Address      *Address       `json:"address"`
	OwnerID      int            `json:"-"`
}

// Email is a single email entry owned by a customer. Email values are
// unique within a customer's collection and globally across customers
// (enforced by the database).
type Email struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	CustomerID int    `json:"-"`
}

// PhoneNumber is a single phone entry owned by a customer.
type PhoneNumber struct {
	ID          int    `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	CustomerID  int    `json:"-"`
}

// Address is the customer's single address. Exactly one per customer;
// deleted together with the customer.
type Address struct {
	ID         int    `json:"id"`
	Street     string `json:"street"`
	Apartment  string `json:"apartment"`
	City       string `json:"city"`
	Country    string `json:"country"`
	ZipCode    string `json:"zipCode"`
	CustomerID int    `json:"-"`
}

// NewCustomer creates an empty customer owned by the given user.
func NewCustomer(ownerID int) *Customer {
	return &Customer{
		OwnerID:      ownerID,
		Emails:       []*Email{},
		PhoneNumbers: []*PhoneNumber{},
	}
}

// AddEmail appends e unless an entry with the same email value already
// exists. Duplicates are silently ignored, not rejected.
func (c *Customer) AddEmail(e *Email) {
	for _, existing := range c.Emails {
		if existing.Email == e.Email {
			return
		}
	}
	e.CustomerID = c.ID
	c.Emails = append(c.Emails, e)
}

// RemoveEmail removes the entry with the same email value, if present.
func (c *Customer) RemoveEmail(e *Email) {
	for i, existing := range c.Emails {
		if existing.Email == e.Email {
			existing.CustomerID = 0
			c.Emails = append(c.Emails[:i], c.Emails[i+1:]...)
			return
		}
	}
}

// AddPhoneNumber appends p unless an entry with the same phone value
// already exists.
func (c *Customer) AddPhoneNumber(p *PhoneNumber) {
	for _, existing := range c.PhoneNumbers {
		if existing.PhoneNumber == p.PhoneNumber {
			return
		}
	}
	p.CustomerID = c.ID
	c.PhoneNumbers = append(c.PhoneNumbers, p)
}

// RemovePhoneNumber removes the entry with the same phone value, if
// present.
func (c *Customer) RemovePhoneNumber(p *PhoneNumber) {
	for i, existing := range c.PhoneNumbers {
		if existing.PhoneNumber == p.PhoneNumber {
			existing.CustomerID = 0
			c.PhoneNumbers = append(c.PhoneNumbers[:i], c.PhoneNumbers[i+1:]...)
			return
		}
	}
}

// SetAddress replaces the customer's address.
func (c *Customer) SetAddress(a *Address) {
	a.CustomerID = c.ID
	c.Address = a
}

// IsOwnedBy reports whether the given user owns this customer.
func (c *Customer) IsOwnedBy(userID int) bool {
	return c.OwnerID == userID
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	namePattern      = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)
	streetPattern    = regexp.MustCompile(`^[a-zA-Z0-9'.\-\s,]*$`)
	apartmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)
	cityPattern      = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)
	countryPattern   = regexp.MustCompile(`^[A-Z]*$`)
	zipCodePattern   = regexp.MustCompile(`^[0-9]*$`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9]{6,16}$`)
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Validate checks every field-level constraint on the customer and
// cascades into the address and each email and phone number. An empty
// result means the aggregate is valid and may be persisted.
func (c *Customer) Validate() []Violation {
	var violations []Violation

	violations = append(violations, validateLength("firstName", "first name", c.FirstName, 2, 64)...)
	if !namePattern.MatchString(c.FirstName) {
		violations = append(violations, Violation{Field: "firstName", Message: "The first name has forbidden symbols"})
	}

	violations = append(violations, validateLength("lastName", "last name", c.LastName, 2, 64)...)
	if !namePattern.MatchString(c.LastName) {
		violations = append(violations, Violation{Field: "lastName", Message: "The last name has forbidden symbols"})
	}

	for _, e := range c.Emails {
		violations = append(violations, e.Validate()...)
	}
	for _, p := range c.PhoneNumbers {
		violations = append(violations, p.Validate()...)
	}

	if c.Address == nil {
		violations = append(violations, Violation{Field: "address", Message: "Please add address properties"})
	} else {
		violations = append(violations, c.Address.Validate()...)
	}

	return violations
}

// Validate checks the email's length and syntax constraints.
func (e *Email) Validate() []Violation {
	var violations []Violation

	violations = append(violations, validateLength("email", "email", e.Email, 5, 64)...)
	if !emailPattern.MatchString(e.Email) {
		violations = append(violations, Violation{
			Field:   "email",
			Message: fmt.Sprintf("The email '%s' is not a valid email.", e.Email),
		})
	}

	return violations
}

// Validate checks the phone number against the allowed format.
func (p *PhoneNumber) Validate() []Violation {
	if !phonePattern.MatchString(p.PhoneNumber) {
		return []Violation{{Field: "phoneNumber", Message: "The phone number has forbidden symbols"}}
	}
	return nil
}

// Validate checks every address field constraint.
func (a *Address) Validate() []Violation {
	var violations []Violation

	violations = append(violations, validateLength("street", "street name", a.Street, 2, 64)...)
	if !streetPattern.MatchString(a.Street) {
		violations = append(violations, Violation{Field: "street", Message: "The street name has forbidden symbols"})
	}

	violations = append(violations, validateLength("apartment", "apartment number", a.Apartment, 2, 64)...)
	if !apartmentPattern.MatchString(a.Apartment) {
		violations = append(violations, Violation{Field: "apartment", Message: "The apartment name has forbidden symbols"})
	}

	violations = append(violations, validateLength("city", "city name", a.City, 2, 64)...)
	if !cityPattern.MatchString(a.City) {
		violations = append(violations, Violation{Field: "city", Message: "The city name has forbidden symbols"})
	}

	violations = append(violations, validateLength("country", "country name", a.Country, 2, 2)...)
	if !countryPattern.MatchString(a.Country) {
		violations = append(violations, Violation{Field: "country", Message: "The country name has forbidden symbols"})
	}

	violations = append(violations, validateLength("zipCode", "zip code", a.ZipCode, 2, 16)...)
	if !zipCodePattern.MatchString(a.ZipCode) {
		violations = append(violations, Violation{Field: "zipCode", Message: "The zip code has forbidden symbols"})
	}

	return violations
}

func validateLength(field, label, value string, min, max int) []Violation {
	if len(value) < min {
		return []Violation{{
			Field:   field,
			Message: fmt.Sprintf("Your %s must be at least %d characters long", label, min),
		}}
	}
	if len(value) > max {
		return []Violation{{
			Field:   field,
			Message: fmt.Sprintf("Your %s cannot be longer than %d characters", label, max),
		}}
	}
	return nil
}
