// Package indicators implements the technical-indicator math shared by
// the strategies and the recommendation engine.
package indicators

import (
	"math"

	"ibexbot/models"
)

// EMASeries returns the exponential moving average at every index,
// seeded with the first value.
func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	k := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*k + out[i-1]
	}
	return out
}

// EMA returns the latest exponential moving average of values
func EMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) < period {
		return values[len(values)-1] // Return last value if not enough data
	}
	series := EMASeries(values, period)
	return series[len(series)-1]
}

// SMA returns the simple moving average of the last period values
func SMA(values []float64, period int) float64 {
	if len(values) < period || period <= 0 {
		if len(values) == 0 {
			return 0
		}
		return values[len(values)-1]
	}
	var sum float64
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period)
}

// StdDev returns the population standard deviation of the last period values
func StdDev(values []float64, period int) float64 {
	if len(values) < period || period <= 0 {
		return 0
	}
	mean := SMA(values, period)
	var variance float64
	for i := len(values) - period; i < len(values); i++ {
		variance += math.Pow(values[i]-mean, 2)
	}
	return math.Sqrt(variance / float64(period))
}

// RSI calculates the Wilder-smoothed Relative Strength Index of the
// candle closes. Returns the neutral 50 when there is not enough data.
func RSI(candles []models.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 50.0
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
	}

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// ATR returns the mean true range over the last period bars
func ATR(candles []models.Candle, period int) float64 {
	if len(candles) < period+1 || period <= 0 {
		return 0
	}
	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		tr := candles[i].High - candles[i].Low
		prevClose := candles[i-1].Close
		tr = math.Max(tr, math.Abs(candles[i].High-prevClose))
		tr = math.Max(tr, math.Abs(candles[i].Low-prevClose))
		sum += tr
	}
	return sum / float64(period)
}

// MACDSeries returns the MACD line and its signal line at every index
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig []float64) {
	if len(closes) == 0 {
		return nil, nil
	}
	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	sig = EMASeries(macd, signal)
	return macd, sig
}

// ROC returns the rate of change in percent at the given index against
// n bars earlier. ok is false when the lookback runs off the series.
func ROC(closes []float64, n, idx int) (float64, bool) {
	if idx < 0 {
		idx += len(closes)
	}
	base := idx - n
	if base < 0 || idx >= len(closes) || closes[base] == 0 {
		return 0, false
	}
	return (closes[idx] - closes[base]) / closes[base] * 100, true
}

// Highest returns the maximum of the last n values
func Highest(values []float64, n int) float64 {
	if len(values) == 0 || n <= 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	max := values[len(values)-n]
	for i := len(values) - n + 1; i < len(values); i++ {
		if values[i] > max {
			max = values[i]
		}
	}
	return max
}

// Lowest returns the minimum of the last n values
func Lowest(values []float64, n int) float64 {
	if len(values) == 0 || n <= 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	min := values[len(values)-n]
	for i := len(values) - n + 1; i < len(values); i++ {
		if values[i] < min {
			min = values[i]
		}
	}
	return min
}

// ADX returns the Average Directional Index together with the plus and
// minus directional indicators, computed over the trailing period window.
func ADX(candles []models.Candle, period int) (adx, plusDI, minusDI float64) {
	if len(candles) < period+1 || period <= 0 {
		return 0, 0, 0
	}

	var trSum, plusSum, minusSum float64
	for i := len(candles) - period; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]

		tr := cur.High - cur.Low
		tr = math.Max(tr, math.Abs(cur.High-prev.Close))
		tr = math.Max(tr, math.Abs(cur.Low-prev.Close))
		trSum += tr

		upMove := cur.High - prev.High
		downMove := prev.Low - cur.Low
		if upMove > downMove && upMove > 0 {
			plusSum += upMove
		}
		if downMove > upMove && downMove > 0 {
			minusSum += downMove
		}
	}

	if trSum == 0 {
		return 0, 0, 0
	}
	plusDI = 100 * plusSum / trSum
	minusDI = 100 * minusSum / trSum
	if plusDI+minusDI == 0 {
		return 0, plusDI, minusDI
	}
	adx = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	return adx, plusDI, minusDI
}
