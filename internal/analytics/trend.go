// Package analytics derives dashboard aggregates from raw transaction lists.
//
// All functions are pure: they take the transaction slice and an explicit
// reference time, and never touch the network or the clock. Transactions with
// unparseable dates are excluded from time-bucketed aggregates rather than
// failing the pipeline.
package analytics

import (
	"math"
	"time"

	"finboard/internal/core"
)

// TrendWindow is the number of trailing calendar months in a monthly trend,
// including the current month.
const TrendWindow = 6

// predictionLookback is how many trailing buckets feed the next-month
// prediction.
const predictionLookback = 3

// Trend labels for the next-month prediction.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

type (
	// MonthBucket aggregates one calendar month of transactions.
	MonthBucket struct {
		Year       int
		Month      time.Month
		Label      string // e.g. "Jan 2025"
		Credit     float64
		Debit      float64
		NetBalance float64
	}

	// Prediction is a synthetic bucket for the next calendar month, averaged
	// from the trailing buckets. Predicted is always true so renderers can
	// keep it out of the historical series.
	Prediction struct {
		Label     string
		Credit    float64
		Debit     float64
		Net       float64
		Trend     string
		Predicted bool
	}
)

// MonthlyTrend buckets transactions into the trailing TrendWindow calendar
// months ending at now, ordered oldest to newest. The result always has
// exactly TrendWindow buckets; months without transactions are zero-valued.
func MonthlyTrend(txns []core.Transaction, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, TrendWindow)
	index := make(map[[2]int]*MonthBucket, TrendWindow)

	for i := 0; i < TrendWindow; i++ {
		offset := TrendWindow - 1 - i
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -offset, 0)
		buckets[i] = MonthBucket{
			Year:  start.Year(),
			Month: start.Month(),
			Label: start.Format("Jan 2006"),
		}
		index[[2]int{start.Year(), int(start.Month())}] = &buckets[i]
	}

	for _, txn := range txns {
		when, ok := txn.When()
		if !ok {
			continue
		}
		bucket, ok := index[[2]int{when.Year(), int(when.Month())}]
		if !ok {
			continue
		}
		switch txn.TxnType {
		case core.Credited:
			bucket.Credit += txn.Amount
		case core.Debited:
			bucket.Debit += txn.Amount
		}
	}

	for i := range buckets {
		buckets[i].NetBalance = buckets[i].Credit - buckets[i].Debit
	}
	return buckets
}

// PredictNextMonth projects the month after the last bucket by averaging the
// trailing predictionLookback buckets. Averages round to whole rupees. With
// fewer than two buckets the trend is stable by convention.
func PredictNextMonth(buckets []MonthBucket) Prediction {
	p := Prediction{Trend: TrendStable, Predicted: true, Label: "Next Month"}
	if len(buckets) == 0 {
		return p
	}

	last := buckets[len(buckets)-1]
	next := time.Date(last.Year, last.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	p.Label = next.Format("Jan 2006")

	window := buckets
	if len(window) > predictionLookback {
		window = window[len(window)-predictionLookback:]
	}
	var credit, debit float64
	for _, b := range window {
		credit += b.Credit
		debit += b.Debit
	}
	n := float64(len(window))
	p.Credit = math.Round(credit / n)
	p.Debit = math.Round(debit / n)
	p.Net = p.Credit - p.Debit

	if len(buckets) >= 2 {
		recent := buckets[len(buckets)-1].NetBalance
		previous := buckets[len(buckets)-2].NetBalance
		switch {
		case recent > previous:
			p.Trend = TrendIncreasing
		case recent < previous:
			p.Trend = TrendDecreasing
		}
	}
	return p
}
