package models

// ContactRecord is the normalized person record returned to callers.
// Fields the provider did not send stay nil and are encoded as null.
type ContactRecord struct {
	FirstName     *string  `json:"FirstName"`
	LastName      *string  `json:"LastName"`
	Email         *string  `json:"Email"`
	Phone         *string  `json:"Phone"`
	Cell          *string  `json:"Cell"`
	Address       *string  `json:"Address"`
	Address2      *string  `json:"Address2"`
	City          *string  `json:"City"`
	State         *string  `json:"State"`
	Zip           *string  `json:"Zip"`
	Country       *string  `json:"Country"`
	DoNotCall     *bool    `json:"DoNotCall"`
	CellDoNotCall *bool    `json:"CellDoNotCall"`
	ISP           *string  `json:"ISP"`
	Organization  *string  `json:"Organization"`
	Confidence    *float64 `json:"Confidence"`
	IPAddress     *string  `json:"IPAddress"`
	IPCity        *string  `json:"IPCity"`
	IPState       *string  `json:"IPState"`
	IPZip         *string  `json:"IPZip"`
	IPCountry     *string  `json:"IPCountry"`
	Latitude      *float64 `json:"Latitude"`
	Longitude     *float64 `json:"Longitude"`
}

// HasIdentity returns true if at least one field identifying
// a person is set. Location-only records have no identity.
func (c ContactRecord) HasIdentity() bool {
	for _, field := range []*string{c.FirstName, c.LastName, c.Email, c.Phone, c.Cell} {
		if field != nil && *field != "" {
			return true
		}
	}
	return false
}
