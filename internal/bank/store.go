// internal/bank/store.go

package bank

import "time"

const (
	// MaxAccounts 為帳戶總數上限。
	MaxAccounts = 200
	// FirstAccountNumber 為預設的第一個帳號。
	FirstAccountNumber int64 = 100100
)

// Store 持有所有帳戶與下一個帳號計數器。
// 帳號為唯一索引，查找採線性掃描；帳戶只增不減。
// Store 本身不加鎖，由 Bank 的互斥鎖保護。
type Store struct {
	accts []*Account
	next  int64
}

// NewStore 建立空白 Store，計數器由 first 起算。
func NewStore(first int64) *Store {
	return &Store{next: first}
}

// Find 依帳號查找帳戶，回傳內部指標。
func (s *Store) Find(number int64) (*Account, bool) {
	for _, a := range s.accts {
		if a.Number == number {
			return a, true
		}
	}
	return nil, false
}

// Create 建立帳戶：指派帳號、遞增計數器，並以初始金額寫入一筆 DEPOSIT。
// 已達 MaxAccounts 時回傳 ErrCapacityExceeded 且不做任何變更。
func (s *Store) Create(name string, pin int32, deposit float64, at time.Time) (*Account, error) {
	if len(s.accts) >= MaxAccounts {
		return nil, ErrCapacityExceeded
	}
	if pin < 0 {
		pin = -pin
	}
	a := &Account{
		Number:  s.next,
		Name:    normalizeName(name),
		PIN:     pin,
		Balance: deposit,
	}
	s.next++
	a.Log.Append(Transaction{Type: TxnDeposit, Amount: deposit, Time: at})
	s.accts = append(s.accts, a)
	return a, nil
}

// Count 回傳帳戶數量。
func (s *Store) Count() int { return len(s.accts) }

// NextAccountNumber 回傳下一個將被指派的帳號。
func (s *Store) NextAccountNumber() int64 { return s.next }

// Accounts 依建立順序回傳內部指標切片的副本。
func (s *Store) Accounts() []*Account {
	out := make([]*Account, len(s.accts))
	copy(out, s.accts)
	return out
}

// insert 用於還原快照，不改變計數器。
func (s *Store) insert(a *Account) {
	s.accts = append(s.accts, a)
}

// dropLast 撤銷最後一次 Create（寫檔失敗時回滾用）；計數器不回退，帳號不會被重用。
func (s *Store) dropLast() {
	if len(s.accts) > 0 {
		s.accts[len(s.accts)-1] = nil
		s.accts = s.accts[:len(s.accts)-1]
	}
}
