package analytics

import (
	"testing"
	"time"

	"finboard/internal/core"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func txn(id, date string, txnType core.TxnType, amount float64) core.Transaction {
	return core.Transaction{ID: id, Date: date, TxnType: txnType, Amount: amount}
}

func TestMonthlyTrend_AlwaysSixOrderedBuckets(t *testing.T) {
	cases := []struct {
		name string
		txns []core.Transaction
	}{
		{"empty list", nil},
		{"single txn", []core.Transaction{txn("t1", "2025-06-01T00:00:00Z", core.Credited, 100)}},
		{"all dates invalid", []core.Transaction{
			txn("t1", "not-a-date", core.Credited, 100),
			txn("t2", "", core.Debited, 50),
			txn("t3", "99/99/9999", core.Debited, 25),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buckets := MonthlyTrend(tc.txns, testNow)
			if len(buckets) != TrendWindow {
				t.Fatalf("got %d buckets, want %d", len(buckets), TrendWindow)
			}
			if buckets[0].Label != "Jan 2025" || buckets[5].Label != "Jun 2025" {
				t.Errorf("bucket order wrong: first %q, last %q", buckets[0].Label, buckets[5].Label)
			}
			for i := 1; i < len(buckets); i++ {
				prev := time.Date(buckets[i-1].Year, buckets[i-1].Month, 1, 0, 0, 0, 0, time.UTC)
				cur := time.Date(buckets[i].Year, buckets[i].Month, 1, 0, 0, 0, 0, time.UTC)
				if !cur.After(prev) {
					t.Errorf("buckets not oldest-to-newest at %d", i)
				}
			}
		})
	}
}

func TestMonthlyTrend_InvalidDatesYieldZeroBuckets(t *testing.T) {
	txns := []core.Transaction{
		txn("t1", "garbage", core.Credited, 100),
		txn("t2", "also garbage", core.Debited, 200),
	}
	for _, b := range MonthlyTrend(txns, testNow) {
		if b.Credit != 0 || b.Debit != 0 || b.NetBalance != 0 {
			t.Errorf("bucket %s not zero: %+v", b.Label, b)
		}
	}
}

func TestMonthlyTrend_Sums(t *testing.T) {
	txns := []core.Transaction{
		txn("t1", "2025-06-01T09:00:00Z", core.Credited, 1000),
		txn("t2", "2025-06-20T09:00:00Z", core.Debited, 400),
		txn("t3", "2025-05-02T09:00:00Z", core.Debited, 250),
		txn("t4", "2024-12-31T09:00:00Z", core.Credited, 9999), // before the window
		txn("t5", "2025-01-01T00:00:00Z", core.Credited, 50),   // first bucket edge
	}
	buckets := MonthlyTrend(txns, testNow)

	jun := buckets[5]
	if jun.Credit != 1000 || jun.Debit != 400 || jun.NetBalance != 600 {
		t.Errorf("june bucket wrong: %+v", jun)
	}
	may := buckets[4]
	if may.Debit != 250 || may.NetBalance != -250 {
		t.Errorf("may bucket wrong: %+v", may)
	}
	jan := buckets[0]
	if jan.Credit != 50 {
		t.Errorf("jan bucket wrong: %+v", jan)
	}
}

func TestPredictNextMonth_Averages(t *testing.T) {
	buckets := []MonthBucket{
		{Year: 2025, Month: time.March, Credit: 100, Debit: 40, NetBalance: 60},
		{Year: 2025, Month: time.April, Credit: 200, Debit: 50, NetBalance: 150},
		{Year: 2025, Month: time.May, Credit: 300, Debit: 60, NetBalance: 240},
		{Year: 2025, Month: time.June, Credit: 400, Debit: 70, NetBalance: 330},
	}
	p := PredictNextMonth(buckets)
	// Last three buckets: credit (200+300+400)/3, debit (50+60+70)/3.
	if p.Credit != 300 {
		t.Errorf("credit = %v, want 300", p.Credit)
	}
	if p.Debit != 60 {
		t.Errorf("debit = %v, want 60", p.Debit)
	}
	if p.Net != 240 {
		t.Errorf("net = %v, want 240", p.Net)
	}
	if p.Label != "Jul 2025" {
		t.Errorf("label = %q, want Jul 2025", p.Label)
	}
	if !p.Predicted {
		t.Error("prediction must be tagged non-historical")
	}
}

func TestPredictNextMonth_TrendLabels(t *testing.T) {
	cases := []struct {
		name string
		nets []float64
		want string
	}{
		{"increasing", []float64{10, 20, 30}, TrendIncreasing},
		{"decreasing", []float64{30, 20, 10}, TrendDecreasing},
		{"flat", []float64{20, 20, 20}, TrendStable},
		{"single bucket", []float64{42}, TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buckets []MonthBucket
			for i, net := range tc.nets {
				buckets = append(buckets, MonthBucket{
					Year: 2025, Month: time.Month(i + 1),
					Credit: net, NetBalance: net,
				})
			}
			if got := PredictNextMonth(buckets).Trend; got != tc.want {
				t.Errorf("trend = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPredictNextMonth_FewerThanLookback(t *testing.T) {
	buckets := []MonthBucket{
		{Year: 2025, Month: time.May, Credit: 100, Debit: 20, NetBalance: 80},
		{Year: 2025, Month: time.June, Credit: 200, Debit: 40, NetBalance: 160},
	}
	p := PredictNextMonth(buckets)
	if p.Credit != 150 || p.Debit != 30 {
		t.Errorf("averages over 2 buckets wrong: credit %v debit %v", p.Credit, p.Debit)
	}
	if p.Trend != TrendIncreasing {
		t.Errorf("trend = %q, want increasing", p.Trend)
	}
}

func TestPredictNextMonth_Empty(t *testing.T) {
	p := PredictNextMonth(nil)
	if p.Credit != 0 || p.Debit != 0 || p.Net != 0 {
		t.Errorf("empty prediction not zero: %+v", p)
	}
	if p.Trend != TrendStable {
		t.Errorf("trend = %q, want stable", p.Trend)
	}
}

func TestPredictNextMonth_RoundsToWholeRupees(t *testing.T) {
	buckets := []MonthBucket{
		{Year: 2025, Month: time.April, Credit: 100, Debit: 10},
		{Year: 2025, Month: time.May, Credit: 100, Debit: 10},
		{Year: 2025, Month: time.June, Credit: 101, Debit: 11},
	}
	p := PredictNextMonth(buckets)
	// 301/3 = 100.33 rounds to 100, 31/3 = 10.33 rounds to 10.
	if p.Credit != 100 || p.Debit != 10 || p.Net != 90 {
		t.Errorf("rounding wrong: %+v", p)
	}
}
