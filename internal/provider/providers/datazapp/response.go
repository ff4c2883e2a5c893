package datazapp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider/errors"
	"github.com/qdm12/ipappend/internal/provider/utils"
)

type responseBody struct {
	Data          json.RawMessage  `json:"Data"`
	Count         utils.FlexFloat  `json:"Count"`
	ProcessedTime utils.FlexString `json:"ProcessedTime"`
}

type record struct {
	FirstName    utils.FlexString `json:"FirstName"`
	LastName     utils.FlexString `json:"LastName"`
	Email        utils.FlexString `json:"Email"`
	Phone        utils.FlexString `json:"Phone"`
	Cell         utils.FlexString `json:"Cell"`
	Address      utils.FlexString `json:"Address"`
	Address2     utils.FlexString `json:"Address2"`
	City         utils.FlexString `json:"City"`
	State        utils.FlexString `json:"State"`
	Zip          utils.FlexString `json:"Zip"`
	Country      utils.FlexString `json:"Country"`
	DNC          utils.FlexBool   `json:"DNC"`
	CellDNC      utils.FlexBool   `json:"CellDNC"`
	ISP          utils.FlexString `json:"ISP"`
	Organization utils.FlexString `json:"Organization"`
	Confidence   utils.FlexFloat  `json:"ConfidenceScore"`
	IP           utils.FlexString `json:"IP"`
	IPCity       utils.FlexString `json:"IPCity"`
	IPState      utils.FlexString `json:"IPState"`
	IPZip        utils.FlexString `json:"IPZip"`
	IPCountry    utils.FlexString `json:"IPCountry"`
	Latitude     utils.FlexFloat  `json:"Latitude"`
	Longitude    utils.FlexFloat  `json:"Longitude"`
}

func (r record) toContactRecord() models.ContactRecord {
	return models.ContactRecord{
		FirstName:     r.FirstName.Value,
		LastName:      r.LastName.Value,
		Email:         r.Email.Value,
		Phone:         r.Phone.Value,
		Cell:          r.Cell.Value,
		Address:       r.Address.Value,
		Address2:      r.Address2.Value,
		City:          r.City.Value,
		State:         r.State.Value,
		Zip:           r.Zip.Value,
		Country:       r.Country.Value,
		DoNotCall:     r.DNC.Value,
		CellDoNotCall: r.CellDNC.Value,
		ISP:           r.ISP.Value,
		Organization:  r.Organization.Value,
		Confidence:    r.Confidence.Value,
		IPAddress:     r.IP.Value,
		IPCity:        r.IPCity.Value,
		IPState:       r.IPState.Value,
		IPZip:         r.IPZip.Value,
		IPCountry:     r.IPCountry.Value,
		Latitude:      r.Latitude.Value,
		Longitude:     r.Longitude.Value,
	}
}

// ParseResponse decodes the flat response schema where person
// records are in the top level Data array.
func (p *Provider) ParseResponse(body []byte) (
	result models.ProviderResult, err error) {
	var data responseBody
	err = json.Unmarshal(body, &data)
	if err != nil {
		return result, fmt.Errorf("%w: %w", errors.ErrUnmarshalResponse, err)
	}

	if data.Count.Value != nil {
		count := int(*data.Count.Value)
		result.Details.Count = &count
	}
	result.Details.ProcessedTime = data.ProcessedTime.Value

	trimmed := bytes.TrimSpace(data.Data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		// absent, null or not an array: no record
		return result, nil
	}

	var records []record
	err = json.Unmarshal(trimmed, &records)
	if err != nil {
		return result, fmt.Errorf("%w: data array: %w", errors.ErrUnmarshalResponse, err)
	}

	result.Records = make([]models.ContactRecord, len(records))
	for i, r := range records {
		result.Records[i] = r.toContactRecord()
	}
	return result, nil
}
