// Package marketdata loads the instrument universe for a session. Instruments
// come either from a JSON file under the data directory or, when none exists,
// from a built-in demo universe of Indian securities. Instruments are loaded
// once and treated as immutable for the session.
package marketdata

import (
	"encoding/json"
	"os"

	"newssense/internal/errors"
	"newssense/internal/models"
)

func ptr(v float64) *float64 { return &v }

// demoUniverse is the built-in instrument set used when no instruments file is
// configured. Performance figures are illustrative.
var demoUniverse = []models.Instrument{
	{
		ID: "JYOTHYLAB", Name: "Jyothy Labs", Category: models.CategoryStock,
		Symbol: "JYOTHYLAB.NS", ISIN: "INE668F01031", Sector: "FMCG",
		Performance: 3.45, ChangePercent: 1.62, Price: ptr(486.30),
	},
	{
		ID: "RELIANCE", Name: "Reliance Industries", Category: models.CategoryStock,
		Symbol: "RELIANCE.NS", ISIN: "INE002A01018", Sector: "Energy",
		Performance: 1.12, ChangePercent: 0.84, Price: ptr(2931.55),
	},
	{
		ID: "TCS", Name: "Tata Consultancy Services", Category: models.CategoryStock,
		Symbol: "TCS.NS", ISIN: "INE467B01029", Sector: "Information Technology",
		Performance: -2.31, ChangePercent: -0.95, Price: ptr(3856.10),
	},
	{
		ID: "INFY", Name: "Infosys", Category: models.CategoryStock,
		Symbol: "INFY.NS", ISIN: "INE009A01021", Sector: "Information Technology",
		Performance: -1.48, ChangePercent: 0.22, Price: ptr(1511.70),
	},
	{
		ID: "HDFCBANK", Name: "HDFC Bank", Category: models.CategoryStock,
		Symbol: "HDFCBANK.NS", ISIN: "INE040A01034", Sector: "Banking",
		Performance: 2.07, ChangePercent: 1.10, Price: ptr(1689.25),
	},
	{
		ID: "TATAMOTORS", Name: "Tata Motors", Category: models.CategoryStock,
		Symbol: "TATAMOTORS.NS", ISIN: "INE155A01022", Sector: "Automobile",
		Performance: 6.84, ChangePercent: 2.33, Price: ptr(1042.85),
	},
	{
		ID: "SUNPHARMA", Name: "Sun Pharmaceutical", Category: models.CategoryStock,
		Symbol: "SUNPHARMA.NS", ISIN: "INE044A01036", Sector: "Pharmaceuticals",
		Performance: -5.62, ChangePercent: -1.87, Price: ptr(1523.40),
	},
	{
		ID: "NIFTYBEES", Name: "Nippon India ETF Nifty BeES", Category: models.CategoryETF,
		Symbol: "NIFTYBEES.NS", ISIN: "INF204KB14I2", Sector: "Broad Market",
		Performance: 1.55, ChangePercent: 0.61, Price: ptr(248.90),
	},
	{
		ID: "BANKBEES", Name: "Nippon India ETF Bank BeES", Category: models.CategoryETF,
		Symbol: "BANKBEES.NS", ISIN: "INF204KB15I9", Sector: "Banking",
		Performance: 2.89, ChangePercent: 1.44, Price: ptr(512.35),
	},
	{
		ID: "AXISBLUECHIP", Name: "Axis Bluechip Fund", Category: models.CategoryMutualFund,
		Sector: "Large Cap", Performance: 4.21, ChangePercent: 0.52, NAV: ptr(58.42),
		Holdings: []models.Holding{
			{ID: "HDFCBANK", Name: "HDFC Bank", Weight: 9.8},
			{ID: "ICICIBANK", Name: "ICICI Bank", Weight: 8.4},
			{ID: "INFY", Name: "Infosys", Weight: 7.1},
			{ID: "RELIANCE", Name: "Reliance Industries", Weight: 6.5},
		},
	},
	{
		ID: "PARAGFLEXI", Name: "Parag Parikh Flexi Cap Fund", Category: models.CategoryMutualFund,
		Sector: "Flexi Cap", Performance: 5.73, ChangePercent: 0.38, NAV: ptr(77.15),
		Holdings: []models.Holding{
			{ID: "HDFCBANK", Name: "HDFC Bank", Weight: 8.2},
			{ID: "ITC", Name: "ITC", Weight: 6.9},
			{ID: "BAJAJHLDNG", Name: "Bajaj Holdings", Weight: 6.1},
		},
	},
	{
		ID: "SBIPHARMA", Name: "SBI Healthcare Opportunities Fund", Category: models.CategoryMutualFund,
		Sector: "Pharmaceuticals", Performance: -1.93, ChangePercent: -0.41, NAV: ptr(312.66),
		Holdings: []models.Holding{
			{ID: "SUNPHARMA", Name: "Sun Pharmaceutical", Weight: 12.4},
			{ID: "CIPLA", Name: "Cipla", Weight: 8.7},
			{ID: "DRREDDY", Name: "Dr Reddy's Laboratories", Weight: 7.3},
		},
	},
}

// LoadInstruments returns the instrument universe. When path is non-empty the
// universe is read from that JSON file; otherwise the demo universe is
// returned. A missing configured file is an error, not a silent fallback.
func LoadInstruments(path string) ([]models.Instrument, error) {
	if path == "" {
		return DemoUniverse(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDataError("instruments", path, "reading instruments file", err)
	}

	var instruments []models.Instrument
	if err := json.Unmarshal(data, &instruments); err != nil {
		return nil, errors.NewDataError("instruments", path, "parsing instruments file", err)
	}
	if len(instruments) == 0 {
		return nil, errors.NewDataError("instruments", path, "file contains no instruments", errors.ErrDataNotFound)
	}
	return instruments, nil
}

// DemoUniverse returns a fresh copy of the built-in instrument set.
func DemoUniverse() []models.Instrument {
	out := make([]models.Instrument, len(demoUniverse))
	copy(out, demoUniverse)
	return out
}
