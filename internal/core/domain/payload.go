package domain

// CustomerPayload is the request body for create and update.
// FirstName and LastName are pointers so a missing field can be told
// apart from an empty string: absence is a malformed payload, an empty
// string is a validation failure.
type CustomerPayload struct {
	FirstName    *string              `json:"firstName"`
	LastName     *string              `json:"lastName"`
	Emails       []EmailPayload       `json:"emails"`
	PhoneNumbers []PhoneNumberPayload `json:"phoneNumbers"`
	Address      *AddressPayload      `json:"address"`
}

type EmailPayload struct {
	Email string `json:"email"`
}

type PhoneNumberPayload struct {
	PhoneNumber string `json:"phoneNumber"`
}

type AddressPayload struct {
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	City      string `json:"city"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode"`
}

// Apply populates the customer from the payload. Names are set,
// emails and phone numbers are added through the dedup path (never
// removed, so updates are additive for collections), and the address
// is replaced wholesale when present.
func (p *CustomerPayload) Apply(c *Customer) error {
	if p.FirstName == nil || p.LastName == nil {
		return ErrMalformedPayload
	}

	c.FirstName = *p.FirstName
	c.LastName = *p.LastName

	for _, e := range p.Emails {
		c.AddEmail(&Email{Email: e.Email})
	}
	for _, pn := range p.PhoneNumbers {
		c.AddPhoneNumber(&PhoneNumber{PhoneNumber: pn.PhoneNumber})
	}

	if p.Address != nil {
		address := c.Address
		if address == nil {
			address = &Address{}
		}
		address.Street = p.Address.Street
		address.Apartment = p.Address.Apartment
		address.City = p.Address.City
		address.Country = p.Address.Country
		address.ZipCode = p.Address.ZipCode
		c.SetAddress(address)
	}

	return nil
}
