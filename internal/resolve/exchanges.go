package resolve

// exchangeNames maps exchange ids to display names, used when annotating
// positions with their venue.
var exchangeNames = map[string]string{
	"SSE":    "Shanghai",
	"SZE":    "Shenzhen",
	"BSE":    "Beijing",
	"SHFE":   "SHFE",
	"DCE":    "Dalian",
	"CZCE":   "Zhengzhou",
	"CFFEX":  "CFFEX",
	"INE":    "INE",
	"GFEX":   "Guangzhou",
	"US":     "US",
	"HK":     "HongKong",
	"NASDAQ": "Nasdaq",
	"NYSE":   "NYSE",
}

// ExchangeName returns the display name for an exchange id, or the empty
// string when the venue is not known.
func ExchangeName(exchangeID string) string {
	return exchangeNames[exchangeID]
}
