package currency

import (
	"fmt"

	"github.com/amirasaad/learnhub/pkg/money"
	"github.com/amirasaad/learnhub/pkg/service/rates"
	"github.com/amirasaad/learnhub/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Routes registers HTTP routes for currency detection, rates and price
// localization. All endpoints are public.
func Routes(app *fiber.App, ratesSvc *rates.Service) {
	app.Get("/api/currencies", ListCurrencies(ratesSvc))

	currencyGroup := app.Group("/api/currency")
	currencyGroup.Get("/detect", DetectCurrency(ratesSvc))
	currencyGroup.Get("/rate", GetExchangeRate(ratesSvc))
	currencyGroup.Post("/convert", ConvertAmount(ratesSvc))
	currencyGroup.Post("/localize", LocalizeAmounts(ratesSvc))
}

// ListCurrencies returns a Fiber handler for listing the currencies prices
// can be shown in.
// @Summary List supported currencies
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/currencies [get]
func ListCurrencies(ratesSvc *rates.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Currencies fetched successfully",
			toCurrencyResponses(ratesSvc.SupportedCurrencies()))
	}
}

// DetectCurrency resolves the caller's country and currency from its IP.
// It always answers 200; an unavailable geolocation service yields the
// default locale with source "fallback".
// @Summary Detect the caller's currency
// @Tags currencies
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/currency/detect [get]
func DetectCurrency(ratesSvc *rates.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := common.ClientIP(c)
		d := ratesSvc.DetectCountryAndCurrency(c.UserContext(), ip)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Currency detected",
			toDetectionResponse(ip, d,
				ratesSvc.CurrencySymbol(d.CurrencyCode),
				ratesSvc.CurrencyDisplayName(d.CurrencyCode)))
	}
}

// GetExchangeRate returns the rate between two currencies.
// @Summary Get an exchange rate
// @Tags currencies
// @Produce json
// @Param from query string false "Source currency, defaults to the base currency"
// @Param to query string true "Target currency"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/currency/rate [get]
func GetExchangeRate(ratesSvc *rates.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := money.NormalizeCode(c.Query("from", ratesSvc.BaseCurrency().String()))
		to := money.NormalizeCode(c.Query("to"))
		if !from.IsValid() || !to.IsValid() {
			return common.ProblemDetailsJSON(c, "Invalid currency code",
				fmt.Errorf("from=%q to=%q", from, to),
				"Currency codes must be three letters",
				fiber.StatusBadRequest)
		}
		rate := ratesSvc.ExchangeRate(c.UserContext(), from, to)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Exchange rate fetched", toRateResponse(rate))
	}
}

// ConvertAmount prices a base-currency amount in the target currency.
// @Summary Convert an amount
// @Tags currencies
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Amount and target currency"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/currency/convert [post]
func ConvertAmount(ratesSvc *rates.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ConvertRequest](c)
		if err != nil {
			return nil // response already written
		}
		target, err := ratesSvc.ValidateTarget(input.TargetCurrency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unsupported currency", err)
		}
		amount, err := money.Parse(input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}

		conv := ratesSvc.ConvertAmount(c.UserContext(), amount, target)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Amount converted",
			toConversionResponse(conv, ratesSvc.CurrencySymbol(conv.To)))
	}
}

// LocalizeAmounts prices a list of base-currency amounts with one rate lookup.
// @Summary Localize a list of prices
// @Tags currencies
// @Accept json
// @Produce json
// @Param request body LocalizeRequest true "Amounts and target currency"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/currency/localize [post]
func LocalizeAmounts(ratesSvc *rates.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LocalizeRequest](c)
		if err != nil {
			return nil // response already written
		}
		target, err := ratesSvc.ValidateTarget(input.TargetCurrency)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unsupported currency", err)
		}
		amounts := make([]decimal.Decimal, 0, len(input.Amounts))
		for i, raw := range input.Amounts {
			amount, err := money.Parse(raw)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid amount", err, fmt.Sprintf("amounts[%d]: %v", i, err))
			}
			amounts = append(amounts, amount)
		}

		convs := ratesSvc.LocalizeAmounts(c.UserContext(), amounts, target)
		symbol := ratesSvc.CurrencySymbol(target)
		out := make([]ConversionResponse, 0, len(convs))
		for _, conv := range convs {
			out = append(out, toConversionResponse(conv, symbol))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Amounts localized", out)
	}
}
