package resolver

// tickerAliases maps lower-cased free-text aliases to instrument symbols.
// Suffix-bearing symbols (.NS, ^NSEI) are opaque strings as far as matching is
// concerned. The table is process-wide constant configuration, shared
// read-only across concurrent query handling.
var tickerAliases = map[string]string{
	// Indian companies and indices
	"jyothy labs":       "JYOTHYLAB.NS",
	"jyothy":            "JYOTHYLAB.NS",
	"nifty 50":          "^NSEI",
	"nifty50":           "^NSEI",
	"nifty":             "^NSEI",
	"sensex":            "^BSESN",
	"sbi":               "SBIN.NS",
	"state bank":        "SBIN.NS",
	"hdfc bank":         "HDFCBANK.NS",
	"reliance":          "RELIANCE.NS",
	"tcs":               "TCS.NS",
	"tata consultancy":  "TCS.NS",
	"infosys":           "INFY.NS",
	"wipro":             "WIPRO.NS",
	"icici bank":        "ICICIBANK.NS",
	"larsen and toubro": "LT.NS",
	"l&t":               "LT.NS",
	"itc":               "ITC.NS",

	// US companies
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"amazon":    "AMZN",
	"google":    "GOOGL",
	"alphabet":  "GOOGL",
	"meta":      "META",
	"facebook":  "META",
	"tesla":     "TSLA",
	"nvidia":    "NVDA",
	"walmart":   "WMT",

	// ETFs
	"invesco qqq":  "QQQ",
	"qqq":          "QQQ",
	"spy":          "SPY",
	"spdr s&p 500": "SPY",
	"s&p 500":      "SPY",
	"dow jones":    "DIA",
	"vanguard":     "VOO",

	// Sector ETFs
	"technology etf": "XLK",
	"tech etf":       "XLK",
	"financial etf":  "XLF",
	"healthcare etf": "XLV",
	"energy etf":     "XLE",

	// Market types
	"emerging markets": "EEM",
	"us market":        "SPY",
}
