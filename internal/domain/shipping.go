package domain

import "fmt"

// ShippingMethod is a named delivery option within a zone.
type ShippingMethod struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Amount     int64  `json:"amount"`
	EtaMinDays int    `json:"eta_min_days"`
	EtaMaxDays int    `json:"eta_max_days"`
}

// ShippingZone groups methods with a free-shipping threshold. A subtotal at
// or above the threshold ships free regardless of method.
type ShippingZone struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	FreeThreshold int64            `json:"free_threshold"`
	Methods       []ShippingMethod `json:"methods"`
}

// RateTable is the full shipping lookup table the estimator widget renders.
type RateTable struct {
	Zones []ShippingZone `json:"zones"`
}

// ShippingQuote is the result of a rate lookup.
type ShippingQuote struct {
	Amount      int64 `json:"amount"`
	FreeApplied bool  `json:"free_applied"`
	Threshold   int64 `json:"threshold"`
}

// DefaultRateTable returns the configured rates for Indian delivery zones.
// Amounts and thresholds are in paise.
func DefaultRateTable() RateTable {
	standard := func(amount int64) ShippingMethod {
		return ShippingMethod{Code: "standard", Name: "Standard Delivery", Amount: amount, EtaMinDays: 4, EtaMaxDays: 7}
	}
	express := func(amount int64) ShippingMethod {
		return ShippingMethod{Code: "express", Name: "Express Delivery", Amount: amount, EtaMinDays: 1, EtaMaxDays: 3}
	}

	return RateTable{
		Zones: []ShippingZone{
			{
				Code:          "in-metro",
				Name:          "Metro Cities",
				FreeThreshold: 99_900,
				Methods:       []ShippingMethod{standard(4_900), express(9_900)},
			},
			{
				Code:          "in-rest",
				Name:          "Rest of India",
				FreeThreshold: 149_900,
				Methods:       []ShippingMethod{standard(7_900), express(14_900)},
			},
			{
				Code:          "in-remote",
				Name:          "Remote & North-East",
				FreeThreshold: 199_900,
				Methods:       []ShippingMethod{standard(12_900)},
			},
		},
	}
}

// Quote computes the shipping cost for a subtotal, zone, and method. A
// subtotal at or above the zone threshold is free. Unknown zone or method
// codes return an error.
func (t RateTable) Quote(subtotal int64, zoneCode, methodCode string) (ShippingQuote, error) {
	if subtotal < 0 {
		return ShippingQuote{}, fmt.Errorf("subtotal must not be negative")
	}

	for _, zone := range t.Zones {
		if zone.Code != zoneCode {
			continue
		}
		for _, method := range zone.Methods {
			if method.Code != methodCode {
				continue
			}
			quote := ShippingQuote{Amount: method.Amount, Threshold: zone.FreeThreshold}
			if subtotal >= zone.FreeThreshold {
				quote.Amount = 0
				quote.FreeApplied = true
			}
			return quote, nil
		}
		return ShippingQuote{}, fmt.Errorf("unknown shipping method %q in zone %q", methodCode, zoneCode)
	}
	return ShippingQuote{}, fmt.Errorf("unknown shipping zone %q", zoneCode)
}
