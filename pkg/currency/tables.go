package currency

import "github.com/amirasaad/learnhub/pkg/money"

var countryCurrency = map[string]money.Code{
	"AR": "ARS",
	"BO": "BOB",
	"BR": "BRL",
	"CL": "CLP",
	"CO": money.COP,
	"CR": "CRC",
	"CU": "CUP",
	"DO": "DOP",
	"EC": money.USD,
	"SV": money.USD,
	"GT": "GTQ",
	"HN": "HNL",
	"MX": money.MXN,
	"NI": "NIO",
	"PA": money.USD,
	"PY": "PYG",
	"PE": money.PEN,
	"UY": "UYU",
	"VE": "VES",
}

var currencyMeta = []Meta{
	{Code: money.USD, Symbol: "$", Name: "US Dollar"},
	{Code: money.EUR, Symbol: "€", Name: "Euro"},
	{Code: money.PEN, Symbol: "S/", Name: "Peruvian Sol"},
	{Code: money.COP, Symbol: "COL$", Name: "Colombian Peso"},
	{Code: money.MXN, Symbol: "MX$", Name: "Mexican Peso"},
	{Code: "ARS", Symbol: "AR$", Name: "Argentine Peso"},
	{Code: "BOB", Symbol: "Bs", Name: "Bolivian Boliviano"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
	{Code: "CLP", Symbol: "CLP$", Name: "Chilean Peso"},
	{Code: "CRC", Symbol: "₡", Name: "Costa Rican Colón"},
	{Code: "CUP", Symbol: "$MN", Name: "Cuban Peso"},
	{Code: "DOP", Symbol: "RD$", Name: "Dominican Peso"},
	{Code: "GTQ", Symbol: "Q", Name: "Guatemalan Quetzal"},
	{Code: "HNL", Symbol: "L", Name: "Honduran Lempira"},
	{Code: "NIO", Symbol: "C$", Name: "Nicaraguan Córdoba"},
	{Code: "PYG", Symbol: "₲", Name: "Paraguayan Guaraní"},
	{Code: "UYU", Symbol: "$U", Name: "Uruguayan Peso"},
	{Code: "VES", Symbol: "Bs.S", Name: "Venezuelan Bolívar"},
}
