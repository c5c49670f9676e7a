package domain

import (
	"strings"
)

// AddressRecord - a standardized address with its linked identifiers, geocodes and service areas.
// Records are built once per index generation and never modified afterwards.
type AddressRecord struct {
	StreetAddress    string   `json:"street_address" db:"street_address"`
	AddressLow       int      `json:"address_low" db:"address_low"`
	AddressLowSuffix string   `json:"address_low_suffix" db:"address_low_suffix"`
	AddressLowFrac   string   `json:"address_low_frac" db:"address_low_frac"`
	AddressHigh      *int     `json:"address_high" db:"address_high"`
	StreetPredir     string   `json:"street_predir" db:"street_predir"`
	StreetName       string   `json:"street_name" db:"street_name"`
	StreetSuffix     string   `json:"street_suffix" db:"street_suffix"`
	StreetPostdir    string   `json:"street_postdir" db:"street_postdir"`
	UnitType         string   `json:"unit_type" db:"unit_type"`
	UnitNum          string   `json:"unit_num" db:"unit_num"`
	StreetFull       string   `json:"street_full" db:"street_full"`
	StreetCode       int      `json:"street_code" db:"street_code"`
	SegID            int      `json:"seg_id" db:"seg_id"`
	ZipCode          string   `json:"zip_code" db:"zip_code"`
	Zip4             string   `json:"zip_4" db:"zip_4"`
	PWDParcelID      string   `json:"pwd_parcel_id" db:"pwd_parcel_id"`
	DORParcelID      string   `json:"dor_parcel_id" db:"dor_parcel_id"`
	LIAddressKey     string   `json:"li_address_key" db:"li_address_key"`
	PWDAccountNums   []string `json:"pwd_account_nums" db:"-"`
	OPAAccountNum    string   `json:"opa_account_num" db:"opa_account_num"`
	OPAOwners        []string `json:"opa_owners" db:"-"`
	OPAAddress       string   `json:"opa_address" db:"opa_address"`

	ServiceAreas

	Geocodes []Geocode `json:"-" db:"-"`
}

// HasOPAAccount reports whether the address is linked to an OPA property
func (a *AddressRecord) HasOPAAccount() bool {
	return a.OPAAccountNum != ""
}

// OwnerMatches reports whether every part appears in at least one owner name.
// Parts are expected upper-cased.
func (a *AddressRecord) OwnerMatches(parts []string) bool {
	if len(parts) == 0 || len(a.OPAOwners) == 0 {
		return false
	}
	for _, part := range parts {
		found := false
		for _, owner := range a.OPAOwners {
			if strings.Contains(strings.ToUpper(owner), part) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AddressLess orders addresses by street, then house number, then unit
func AddressLess(a, b *AddressRecord) bool {
	if a.StreetName != b.StreetName {
		return a.StreetName < b.StreetName
	}
	if a.StreetSuffix != b.StreetSuffix {
		return a.StreetSuffix < b.StreetSuffix
	}
	if a.StreetPredir != b.StreetPredir {
		return a.StreetPredir < b.StreetPredir
	}
	if a.AddressLow != b.AddressLow {
		return a.AddressLow < b.AddressLow
	}
	if a.AddressLowSuffix != b.AddressLowSuffix {
		return a.AddressLowSuffix < b.AddressLowSuffix
	}
	ah, bh := highOrZero(a), highOrZero(b)
	if ah != bh {
		return ah < bh
	}
	if a.UnitNum != b.UnitNum {
		return a.UnitNum < b.UnitNum
	}
	return a.StreetAddress < b.StreetAddress
}

func highOrZero(a *AddressRecord) int {
	if a.AddressHigh == nil {
		return 0
	}
	return *a.AddressHigh
}
