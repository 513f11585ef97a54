package dashboard

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/litescan/pkg/models"
)

// ratePrecision is the number of decimal places kept on derived
// exchange rates.
const ratePrecision = 8

// ComputeExchangeRates derives the primary asset's rate against every
// other asset in usdPrices as primaryUSD / otherUSD, rounded to 8
// decimal places. Assets with a zero, absent, or non-finite USD price
// are omitted rather than producing Inf or NaN; if the primary price
// itself is unusable the result is empty.
func ComputeExchangeRates(primary string, usdPrices map[string]float64) models.ExchangeRateMap {
	rates := make(models.ExchangeRateMap)

	primaryUSD, ok := usdPrices[primary]
	if !ok || !finitePositive(primaryUSD) {
		return rates
	}

	p := decimal.NewFromFloat(primaryUSD)
	for asset, usd := range usdPrices {
		if asset == primary || !finitePositive(usd) {
			continue
		}
		rates[asset] = p.Div(decimal.NewFromFloat(usd)).Round(ratePrecision)
	}
	return rates
}

// ProcessHistory maps raw (timestampMs, price) pairs to chart-ready
// points: a formatted date and a price fixed to 2 decimals (half-up).
// Input order is preserved; the source supplies chronological ascending.
func ProcessHistory(pairs [][2]float64) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(pairs))
	for _, pair := range pairs {
		ts := time.UnixMilli(int64(pair[0])).UTC()
		points = append(points, models.PricePoint{
			Date:  ts.Format("Jan 2, 2006"),
			Price: decimal.NewFromFloat(pair[1]).StringFixed(2),
		})
	}
	return points
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
