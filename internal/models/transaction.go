package models

import (
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Transaction is a read-only row of the ledger transactions table.
type Transaction struct {
	ID          int64     `db:"transaction_id" json:"transaction_id"`
	FromAccount string    `db:"from_acct" json:"from_acct"`
	ToAccount   string    `db:"to_acct" json:"to_acct"`
	FromRoute   string    `db:"from_route" json:"from_route"`
	ToRoute     string    `db:"to_route" json:"to_route"`
	Amount      float64   `db:"amount" json:"amount"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Description string    `db:"-" json:"description,omitempty"`
}

// TotalAmount sums the amounts of txs.
func TotalAmount(txs []Transaction) float64 {
	var total float64
	for _, tx := range txs {
		total += tx.Amount
	}
	return total
}

// TransactionFromRow reads the transaction-shaped columns of a query row.
// Missing or unexpected columns leave the zero value.
func TransactionFromRow(row Row) Transaction {
	tx := Transaction{
		Amount:    numberValue(row["amount"]),
		Timestamp: timeValue(row["timestamp"]),
	}
	if id, ok := row["transaction_id"]; ok {
		tx.ID = int64(numberValue(id))
	}
	tx.FromAccount, _ = row["from_acct"].(string)
	tx.ToAccount, _ = row["to_acct"].(string)
	tx.FromRoute, _ = row["from_route"].(string)
	tx.ToRoute, _ = row["to_route"].(string)
	tx.Description, _ = row["description"].(string)
	return tx
}

func TransactionsFromRows(rows []Row) []Transaction {
	txs := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, TransactionFromRow(row))
	}
	return txs
}

func numberValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return 0
		}
		return f.Float64
	default:
		return 0
	}
}

func timeValue(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}
