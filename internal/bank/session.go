// internal/bank/session.go

package bank

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Session 代表一次成功登入後的操作範圍，所有操作皆限定於登入的帳戶。
// Logout 之後任何操作都回傳 ErrSessionClosed。
type Session struct {
	ID     uuid.UUID
	bank   *Bank
	number int64
	closed atomic.Bool
}

func newSession(b *Bank, number int64) *Session {
	return &Session{ID: uuid.New(), bank: b, number: number}
}

// Number 回傳登入的帳號。
func (s *Session) Number() int64 { return s.number }

// Closed 回報 Session 是否已登出。
func (s *Session) Closed() bool { return s.closed.Load() }

// Logout 結束 Session；重複呼叫無副作用。
func (s *Session) Logout() { s.closed.Store(true) }

// Account 回傳登入帳戶的目前快照（值拷貝）。
func (s *Session) Account() (*Account, error) {
	if s.Closed() {
		return nil, ErrSessionClosed
	}
	return s.bank.Get(s.number)
}

// Balance 回傳登入帳戶的餘額。
func (s *Session) Balance() (float64, error) {
	a, err := s.Account()
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Deposit 存入 amt 至登入帳戶，見 Bank.Deposit。
func (s *Session) Deposit(amt float64) (*Account, error) {
	if s.Closed() {
		return nil, ErrSessionClosed
	}
	return s.bank.Deposit(s.number, amt)
}

// Withdraw 自登入帳戶提領 amt，見 Bank.Withdraw。
func (s *Session) Withdraw(amt float64) (*Account, error) {
	if s.Closed() {
		return nil, ErrSessionClosed
	}
	return s.bank.Withdraw(s.number, amt)
}

// Transfer 自登入帳戶轉帳 amt 至 to，見 Bank.Transfer。
func (s *Session) Transfer(to int64, amt float64) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	return s.bank.Transfer(s.number, to, amt)
}

// Statement 回傳 mini-statement：最近 MaxTxns 筆交易，最舊在前。
func (s *Session) Statement() ([]Transaction, error) {
	if s.Closed() {
		return nil, ErrSessionClosed
	}
	return s.bank.Statement(s.number)
}

// ChangePIN 變更登入帳戶的 PIN。
func (s *Session) ChangePIN(pin int32) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	return s.bank.ChangePIN(s.number, pin)
}
