// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account、Transaction 與固定容量的 TransactionLog，不含任何 I/O 或儲存細節。

package bank

import (
	"strings"
	"time"
)

const (
	// MaxTxns 為每個帳戶保留的最近交易筆數（mini-statement）。
	MaxTxns = 10
	// MaxNameLen 為帳戶名稱可保存的最大位元組數（檔案欄位 64 bytes，保留結尾 NUL）。
	MaxNameLen = 63
)

// TxnType is the short tag stored with every transaction.
type TxnType string

const (
	TxnDeposit     TxnType = "DEPOSIT"
	TxnWithdraw    TxnType = "WITHDRAW"
	TxnTransferOut TxnType = "TRANSFER_OUT"
	TxnTransferIn  TxnType = "TRANSFER_IN"
)

// Valid 回報是否為已知的交易類型。
func (t TxnType) Valid() bool {
	switch t {
	case TxnDeposit, TxnWithdraw, TxnTransferOut, TxnTransferIn:
		return true
	}
	return false
}

// Transaction represents a transaction record.
type Transaction struct {
	Type         TxnType
	Amount       float64
	Time         time.Time
	OtherAccount int64
}

// TransactionLog 為固定容量的滑動視窗：最舊在前、最新在後。
// 以陣列 + 長度實作，Account 以值拷貝時日誌一併拷貝，不會共用底層儲存。
type TransactionLog struct {
	txns [MaxTxns]Transaction
	n    int
}

// Append 追加一筆交易；已滿時丟棄最舊的一筆，其餘順序不變。
func (l *TransactionLog) Append(t Transaction) {
	if l.n < MaxTxns {
		l.txns[l.n] = t
		l.n++
		return
	}
	copy(l.txns[:], l.txns[1:])
	l.txns[MaxTxns-1] = t
}

// Entries 回傳交易副本，最舊在前。
func (l *TransactionLog) Entries() []Transaction {
	out := make([]Transaction, l.n)
	copy(out, l.txns[:l.n])
	return out
}

// Len 回傳目前保留的筆數。
func (l *TransactionLog) Len() int { return l.n }

// Account represents a bank account.
type Account struct {
	Number  int64
	Name    string
	PIN     int32
	Balance float64
	Log     TransactionLog
}

// normalizeName 截斷至第一個 NUL 與 MaxNameLen 位元組，確保可原樣寫入固定欄位。
// 名稱只視為原始位元組，截斷可能切開多位元組字元。
func normalizeName(name string) string {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if len(name) > MaxNameLen {
		name = name[:MaxNameLen]
	}
	return name
}
