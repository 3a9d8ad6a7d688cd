package model

type ConversionRequest struct {
	From   Currency `json:"from"`
	To     Currency `json:"to"`
	Amount float64  `json:"amount"`
}

// ConversionResult carries the converted amount and the display-oriented
// rate. DisplayBase is the side printed as "1 <base>"; the orientation is
// chosen so DisplayRate reads >= 1 where possible, except that a pair
// involving the pivot always prices the foreign currency in KRW.
type ConversionResult struct {
	From            Currency `json:"from"`
	To              Currency `json:"to"`
	FromSymbol      string   `json:"from_symbol"`
	ToSymbol        string   `json:"to_symbol"`
	FromAmount      float64  `json:"from_amount"`
	ConvertedAmount float64  `json:"converted_amount"`
	DisplayRate     string   `json:"display_rate,omitempty"`
	DisplayBase     Currency `json:"display_base,omitempty"`
	DisplayQuote    Currency `json:"display_quote,omitempty"`
}
