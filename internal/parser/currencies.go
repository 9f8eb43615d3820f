package parser

// iso4217 is the set of currency codes the parser recognizes in free text.
// The literal token "MSI" is never treated as a currency even though it is
// three letters.
var iso4217 = map[string]bool{
	"AED": true, "ARS": true, "AUD": true, "BGN": true, "BOB": true,
	"BRL": true, "CAD": true, "CHF": true, "CLP": true, "CNY": true,
	"COP": true, "CRC": true, "CUP": true, "CZK": true, "DKK": true,
	"DOP": true, "EGP": true, "EUR": true, "GBP": true, "GTQ": true,
	"HKD": true, "HNL": true, "HUF": true, "IDR": true, "ILS": true,
	"INR": true, "ISK": true, "JMD": true, "JPY": true, "KRW": true,
	"MAD": true, "MXN": true, "MYR": true, "NIO": true, "NOK": true,
	"NZD": true, "PAB": true, "PEN": true, "PHP": true, "PLN": true,
	"PYG": true, "QAR": true, "RON": true, "RSD": true, "RUB": true,
	"SAR": true, "SEK": true, "SGD": true, "THB": true, "TRY": true,
	"TWD": true, "UAH": true, "USD": true, "UYU": true, "VES": true,
	"VND": true, "ZAR": true,
}

// IsCurrencyCode reports whether a token is a recognized ISO-4217 code.
func IsCurrencyCode(token string) bool {
	return iso4217[token]
}
