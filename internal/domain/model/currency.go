package model

type Currency string

const (
	KRW Currency = "KRW"
	USD Currency = "USD"
	JPY Currency = "JPY"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CNY Currency = "CNY"
)

// Pivot is the local reference currency; every rate in a RateTable is
// expressed as KRW per 1 unit of the currency.
const Pivot = KRW

var SupportedCurrencies = []Currency{KRW, USD, JPY, EUR, GBP, CNY}

var currencySymbols = map[Currency]string{
	KRW: "₩",
	USD: "$",
	JPY: "¥",
	EUR: "€",
	GBP: "£",
	CNY: "¥",
}

// eximUnits maps currencies to the unit names used by the Korea Eximbank
// feed. JPY is quoted per 100 yen there.
var eximUnits = map[Currency]string{
	USD: "USD",
	JPY: "JPY(100)",
	EUR: "EUR",
	GBP: "GBP",
	CNY: "CNY",
}

func (c Currency) IsSupported() bool {
	for _, supported := range SupportedCurrencies {
		if c == supported {
			return true
		}
	}
	return false
}

func (c Currency) IsPivot() bool {
	return c == Pivot
}

func (c Currency) Symbol() string {
	return currencySymbols[c]
}

// EximUnit returns the Eximbank unit name for the currency, or "" for the
// pivot currency, which the feed does not quote.
func (c Currency) EximUnit() string {
	return eximUnits[c]
}

func (c Currency) String() string {
	return string(c)
}
