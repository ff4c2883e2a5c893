package datazappv2

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/qdm12/ipappend/internal/models"
	"github.com/qdm12/ipappend/internal/provider/errors"
	"github.com/qdm12/ipappend/internal/provider/utils"
)

type record struct {
	FirstName utils.FlexString `json:"FirstName"`
	LastName  utils.FlexString `json:"LastName"`
	Email     utils.FlexString `json:"Email"`
	Phone     utils.FlexString `json:"Phone"`
	CellPhone utils.FlexString `json:"CellPhone"`
	Address1  utils.FlexString `json:"Address1"`
	Address2  utils.FlexString `json:"Address2"`
	City      utils.FlexString `json:"City"`
	State     utils.FlexString `json:"State"`
	ZipCode   utils.FlexString `json:"ZipCode"`
	Country   utils.FlexString `json:"Country"`
	DNC       utils.FlexBool   `json:"DNC"`
	CellDNC   utils.FlexBool   `json:"CellDNC"`
	ISP       utils.FlexString `json:"ISP"`
	Org       utils.FlexString `json:"Org"`
	Score     utils.FlexFloat  `json:"Score"`
	IPAddress utils.FlexString `json:"IPAddress"`
	IPCity    utils.FlexString `json:"IPCity"`
	IPState   utils.FlexString `json:"IPState"`
	IPZip     utils.FlexString `json:"IPZip"`
	IPCountry utils.FlexString `json:"IPCountry"`
	Latitude  utils.FlexFloat  `json:"Latitude"`
	Longitude utils.FlexFloat  `json:"Longitude"`
}

func (r record) toContactRecord() models.ContactRecord {
	return models.ContactRecord{
		FirstName:     r.FirstName.Value,
		LastName:      r.LastName.Value,
		Email:         r.Email.Value,
		Phone:         r.Phone.Value,
		Cell:          r.CellPhone.Value,
		Address:       r.Address1.Value,
		Address2:      r.Address2.Value,
		City:          r.City.Value,
		State:         r.State.Value,
		Zip:           r.ZipCode.Value,
		Country:       r.Country.Value,
		DoNotCall:     r.DNC.Value,
		CellDoNotCall: r.CellDNC.Value,
		ISP:           r.ISP.Value,
		Organization:  r.Org.Value,
		Confidence:    r.Score.Value,
		IPAddress:     r.IPAddress.Value,
		IPCity:        r.IPCity.Value,
		IPState:       r.IPState.Value,
		IPZip:         r.IPZip.Value,
		IPCountry:     r.IPCountry.Value,
		Latitude:      r.Latitude.Value,
		Longitude:     r.Longitude.Value,
	}
}

// ParseResponse extracts records from the nested ResponseDetail.Data
// path. A missing path means no record, not an error.
func (p *Provider) ParseResponse(body []byte) (
	result models.ProviderResult, err error) {
	if !json.Valid(body) {
		return result, fmt.Errorf("%w: response is not valid JSON",
			errors.ErrUnmarshalResponse)
	}

	root := jsoniter.Get(body)
	if root.ValueType() != jsoniter.ObjectValue {
		return result, fmt.Errorf("%w: response is not a JSON object",
			errors.ErrUnmarshalResponse)
	}

	detail := root.Get("ResponseDetail")
	if count := detail.Get("Count"); count.ValueType() == jsoniter.NumberValue {
		value := count.ToInt()
		result.Details.Count = &value
	}
	if processed := detail.Get("ProcessedTime"); processed.ValueType() == jsoniter.StringValue {
		value := processed.ToString()
		result.Details.ProcessedTime = &value
	}

	data := detail.Get("Data")
	if data.ValueType() != jsoniter.ArrayValue {
		return result, nil
	}

	size := data.Size()
	result.Records = make([]models.ContactRecord, 0, size)
	for i := 0; i < size; i++ {
		element := data.Get(i)
		if element.ValueType() != jsoniter.ObjectValue {
			continue
		}
		var r record
		// records are decoded with encoding/json so the Flex
		// types custom unmarshalers are used.
		err = json.Unmarshal([]byte(element.ToString()), &r)
		if err != nil {
			return result, fmt.Errorf("%w: record %d: %w",
				errors.ErrUnmarshalResponse, i, err)
		}
		result.Records = append(result.Records, r.toContactRecord())
	}
	return result, nil
}
