// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 所有錯誤皆可在操作邊界回復：失敗時不會留下任何部分變更，由上層 console 轉成提示訊息。

package bank

import "errors"

var (
	// ErrAccountNotFound 代表帳戶不存在（登入或操作來源帳戶）。
	ErrAccountNotFound = errors.New("account not found")

	// ErrRecipientNotFound 代表轉帳目標帳戶不存在。
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrInvalidAmount 代表金額非法（<=0、NaN、Inf；初始存款僅限 NaN、Inf）。
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds 代表餘額不足，導致提款或轉帳失敗。
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIncorrectPIN 代表 PIN 比對失敗。
	ErrIncorrectPIN = errors.New("incorrect PIN")

	// ErrCapacityExceeded 代表帳戶數量已達上限 MaxAccounts。
	ErrCapacityExceeded = errors.New("maximum account limit reached")

	// ErrPersistence 代表寫入檔案失敗；記憶體內的變更已回滾。
	ErrPersistence = errors.New("persistence failure")

	// ErrSessionClosed 代表 Session 已登出。
	ErrSessionClosed = errors.New("session closed")
)
