package model

import "strings"

// Area is a geographic region a buyer can prefer.
type Area struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BuyerType is a kind of buyer.
type BuyerType struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Areas is the fixed enumeration of preferred areas.
var Areas = []Area{
	{ID: "DFW", Label: "Dallas Fort Worth"},
	{ID: "Austin", Label: "Austin"},
	{ID: "Houston", Label: "Houston"},
	{ID: "San Antonio", Label: "San Antonio"},
	{ID: "Other Areas", Label: "Other Areas"},
}

// BuyerTypes is the fixed enumeration of buyer types.
var BuyerTypes = []BuyerType{
	{ID: "CashBuyer", Label: "Cash Buyer"},
	{ID: "Builder", Label: "Builder"},
	{ID: "Developer", Label: "Developer"},
	{ID: "Realtor", Label: "Realtor"},
	{ID: "Investor", Label: "Investor"},
	{ID: "Wholesaler", Label: "Wholesaler"},
}

// Buyer sources.
const (
	SourceManualEntry = "Manual Entry"
	SourceVIP         = "VIP Buyers List"
	SourceCSVImport   = "CSV Import"
)

// Default email status for new buyers.
const EmailStatusAvailable = "available"

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Offer statuses.
const OfferStatusPending = "PENDING"

// IsArea reports whether id is a known area.
func IsArea(id string) bool {
	for _, a := range Areas {
		if a.ID == id {
			return true
		}
	}
	return false
}

// IsBuyerType reports whether id is a known buyer type.
func IsBuyerType(id string) bool {
	for _, t := range BuyerTypes {
		if t.ID == id {
			return true
		}
	}
	return false
}

// CanonicalArea returns the id of the area matching s by id or label,
// ignoring case.
func CanonicalArea(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, a := range Areas {
		if strings.EqualFold(a.ID, s) || strings.EqualFold(a.Label, s) {
			return a.ID, true
		}
	}
	return s, false
}

// CanonicalBuyerType returns the id of the buyer type matching s by id or
// label, ignoring case.
func CanonicalBuyerType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, t := range BuyerTypes {
		if strings.EqualFold(t.ID, s) || strings.EqualFold(t.Label, s) {
			return t.ID, true
		}
	}
	return s, false
}
