package models

import (
	"math"
	"time"
)

// AmountBucket is one fixed spending range. Amounts below Upper belong to it.
type AmountBucket struct {
	Name  string
	Label string
	Upper float64
}

// AmountBuckets are ordered; ties between buckets resolve to the earlier one.
var AmountBuckets = []AmountBucket{
	{Name: "Small purchases", Label: "Small purchases (<$50)", Upper: 50},
	{Name: "Medium purchases", Label: "Medium purchases ($50-$200)", Upper: 200},
	{Name: "Large purchases", Label: "Large purchases ($200-$500)", Upper: 500},
	{Name: "Very large purchases", Label: "Very large purchases (>$500)", Upper: math.Inf(1)},
}

// BucketFor returns the bucket an amount falls into. Every amount has exactly one.
func BucketFor(amount float64) AmountBucket {
	for _, b := range AmountBuckets {
		if amount < b.Upper {
			return b
		}
	}
	return AmountBuckets[len(AmountBuckets)-1]
}

type CategorySpending struct {
	Category         string  `json:"category"`
	TransactionCount int64   `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}

type DailySpending struct {
	Date             time.Time `json:"date"`
	TransactionCount int64     `json:"transaction_count"`
	TotalAmount      float64   `json:"total_amount"`
	AvgAmount        float64   `json:"avg_amount"`
}

type MonthlySpending struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	TransactionCount int64   `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	AvgAmount        float64 `json:"avg_amount"`
}
