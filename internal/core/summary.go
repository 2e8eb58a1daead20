package core

// DailyTotal is the total spend on one calendar date.
type DailyTotal struct {
	Date  Date
	Total Money
}

// Comparison pairs actual spend with the ideal allocation for one category
// of the owner's rule.
type Comparison struct {
	Category string
	Actual   Money
	Ideal    Money
}
