package analytics

import (
	"sort"
	"strings"
	"time"

	"finboard/internal/core"
)

// Uncategorized is the label applied when a transaction carries no category.
const Uncategorized = "Uncategorized"

// CategoryAmount is one entry of a category breakdown.
type CategoryAmount struct {
	Category string
	Amount   float64
}

// CategoryBreakdown groups transactions of one type by category and sums
// amounts per group, sorted descending. Equal amounts keep first-encounter
// order. Missing categories group under Uncategorized.
func CategoryBreakdown(txns []core.Transaction, txnType core.TxnType) []CategoryAmount {
	totals := make(map[string]float64)
	var order []string

	for _, txn := range txns {
		if txn.TxnType != txnType {
			continue
		}
		category := strings.TrimSpace(txn.Category)
		if category == "" {
			category = Uncategorized
		}
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] += txn.Amount
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, category := range order {
		out = append(out, CategoryAmount{Category: category, Amount: totals[category]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// The six fixed expense buckets of the current-month expense chart, in render
// order. Shopping is the default bucket for anything the keyword rules miss.
var ExpenseBucketNames = []string{"Food", "Travel", "Subscriptions", "EMI", "Medical", "Shopping"}

// bucketRules map free-text categories onto the fixed buckets. Rules are
// checked in order and the first hit wins, so a transaction never contributes
// to more than one bucket. Keywords follow the upstream's category vocabulary
// (merchant names included).
var bucketRules = []struct {
	bucket   string
	keywords []string
}{
	{"Food", []string{"food", "restaurant", "dining", "zomato", "swiggy", "dominos", "kfc", "cafe", "grocer"}},
	{"Travel", []string{"travel", "transport", "uber", "ola", "rapido", "irctc", "metro", "flight", "fuel", "petrol", "cab"}},
	{"Subscriptions", []string{"subscription", "netflix", "spotify", "prime", "hotstar", "membership"}},
	{"EMI", []string{"emi", "loan", "installment"}},
	{"Medical", []string{"medical", "health", "pharmacy", "hospital", "doctor"}},
}

// ClassifyExpense maps a free-text category label onto one of the fixed
// expense buckets. This is a best-effort keyword heuristic, not exact
// matching; unmatched labels land in Shopping.
func ClassifyExpense(category string) string {
	lowered := strings.ToLower(category)
	for _, rule := range bucketRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.bucket
			}
		}
	}
	return "Shopping"
}

// MonthlyExpenseBuckets sums the current calendar month's debits into the
// fixed expense buckets. All buckets are present in the result, zero when
// empty.
func MonthlyExpenseBuckets(txns []core.Transaction, now time.Time) map[string]float64 {
	out := make(map[string]float64, len(ExpenseBucketNames))
	for _, name := range ExpenseBucketNames {
		out[name] = 0
	}

	for _, txn := range txns {
		if txn.TxnType != core.Debited {
			continue
		}
		when, ok := txn.When()
		if !ok {
			continue
		}
		if when.Year() != now.Year() || when.Month() != now.Month() {
			continue
		}
		out[ClassifyExpense(txn.Category)] += txn.Amount
	}
	return out
}
