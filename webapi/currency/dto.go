package currency

import (
	"github.com/amirasaad/learnhub/pkg/currency"
	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/amirasaad/learnhub/pkg/service/rates"
)

// ConvertRequest represents the request body for pricing one amount.
type ConvertRequest struct {
	Amount         string `json:"amount" validate:"required,numeric"`
	TargetCurrency string `json:"target_currency" validate:"required,len=3,alpha"`
}

// LocalizeRequest represents the request body for pricing a list of amounts.
type LocalizeRequest struct {
	Amounts        []string `json:"amounts" validate:"required,min=1,max=100,dive,required,numeric"`
	TargetCurrency string   `json:"target_currency" validate:"required,len=3,alpha"`
}

// DetectionResponse is the locale resolved for the caller.
type DetectionResponse struct {
	IP             string `json:"ip"`
	CountryCode    string `json:"country_code"`
	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`
	CurrencyName   string `json:"currency_name"`
	Source         string `json:"source"`
}

// RateResponse carries rates as strings to keep their full precision.
type RateResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Rate   string `json:"rate"`
	Source string `json:"source"`
}

// ConversionResponse is one priced amount.
type ConversionResponse struct {
	OriginalAmount   string `json:"original_amount"`
	OriginalCurrency string `json:"original_currency"`
	ConvertedAmount  string `json:"converted_amount"`
	TargetCurrency   string `json:"target_currency"`
	ExchangeRate     string `json:"exchange_rate"`
	Formatted        string `json:"formatted"`
	Source           string `json:"source"`
}

// CurrencyResponse represents the response structure for currency data
type CurrencyResponse struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func toDetectionResponse(ip string, d rates.Detection, symbol, name string) DetectionResponse {
	return DetectionResponse{
		IP:             ip,
		CountryCode:    d.CountryCode,
		CurrencyCode:   d.CurrencyCode.String(),
		CurrencySymbol: symbol,
		CurrencyName:   name,
		Source:         string(d.Source),
	}
}

func toRateResponse(r rates.Rate) RateResponse {
	return RateResponse{
		From:   r.From.String(),
		To:     r.To.String(),
		Rate:   money.RateString(r.Value),
		Source: string(r.Source),
	}
}

func toConversionResponse(c rates.Conversion, symbol string) ConversionResponse {
	return ConversionResponse{
		OriginalAmount:   money.String(c.Amount),
		OriginalCurrency: c.From.String(),
		ConvertedAmount:  money.String(c.Converted),
		TargetCurrency:   c.To.String(),
		ExchangeRate:     money.RateString(c.Rate),
		Formatted:        money.Format(c.Converted, symbol),
		Source:           string(c.Source),
	}
}

func toCurrencyResponses(metas []currency.Meta) []CurrencyResponse {
	out := make([]CurrencyResponse, 0, len(metas))
	for _, m := range metas {
		out = append(out, CurrencyResponse{Code: m.Code.String(), Symbol: m.Symbol, Name: m.Name})
	}
	return out
}
