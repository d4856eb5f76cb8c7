package ta

import "math"

func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// RSI uses simple rolling means for the gain/loss averages, not Wilder's
// exponential smoothing. This matches the production signal definition and
// must not be "corrected". A window with no movement at all has no defined
// ratio and yields NaN, which the classifier treats as no-signal.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if gain == 0 && loss == 0 {
		return math.NaN()
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// RangeMean is the rolling mean of the high-low range over the last n bars.
func RangeMean(highs, lows []float64, n int) float64 {
	if len(highs) != len(lows) || len(highs) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(highs) - n; i < len(highs); i++ {
		sum += highs[i] - lows[i]
	}
	return sum / float64(n)
}

// StopLine is the trailing trend filter: midpoint of the latest bar minus
// mult times the rolling range mean.
func StopLine(highs, lows []float64, n int, mult float64) float64 {
	r := RangeMean(highs, lows, n)
	if math.IsNaN(r) {
		return math.NaN()
	}
	mid := (highs[len(highs)-1] + lows[len(lows)-1]) / 2
	return mid - mult*r
}
