// internal/bank/bank.go

// Package bank 定義核心商業邏輯：開戶、驗證、存款、提款、轉帳、變更 PIN 與交易日誌。
// 採用單一互斥鎖 (sync.Mutex) 同時保護 Store 與寫檔，所有變更「原子且序列化」。
// 每次變更皆同步寫檔後才返回；寫檔失敗時回滾記憶體狀態並回傳 ErrPersistence。
package bank

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sync"
	"time"

	"atmsim/internal/storage"
)

// Persister 為持久化介面；storage.FileStore 為預設實作。
type Persister interface {
	Save(storage.Snapshot) error
	Load() (storage.Snapshot, error)
}

// Bank 為聚合根 (Aggregate Root)：管理全系統帳戶。
// - mu：序列化所有讀寫與寫檔，確保跨帳戶操作（轉帳）原子完成。
// - store：帳戶與帳號計數器。
// - persist：可為 nil（純記憶體，測試用）。
type Bank struct {
	mu      sync.Mutex
	store   *Store
	persist Persister
	first   int64
	now     func() time.Time
}

// Option 調整 Bank 的建立參數。
type Option func(*Bank)

// WithFirstAccountNumber 設定空白登錄表的第一個帳號。
func WithFirstAccountNumber(n int64) Option {
	return func(b *Bank) { b.first = n }
}

// WithClock 替換交易時間來源。
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// NewBank 建立空白銀行實例。
func NewBank(p Persister, opts ...Option) *Bank {
	b := &Bank{persist: p, first: FirstAccountNumber, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	b.store = NewStore(b.first)
	return b
}

// Open 建立銀行並由 p 載入既有登錄表。
// 檔案不存在視為首次執行（空白登錄表）；其他載入錯誤代表登錄表不可用，直接回傳。
func Open(p Persister, opts ...Option) (*Bank, error) {
	b := NewBank(p, opts...)
	if p == nil {
		return b, nil
	}
	snap, err := p.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	if err := b.Restore(snap); err != nil {
		return nil, err
	}
	return b, nil
}

// Create 以名稱、PIN 與初始存款開戶；初始存款僅拒絕 NaN 與 Inf，正負號由 console 檢核。
// PIN 若為負數取絕對值；名稱截斷至 MaxNameLen 位元組。
func (b *Bank) Create(name string, pin int32, deposit float64) (*Account, error) {
	if !finite(deposit) {
		return nil, ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.store.Create(name, pin, deposit, b.stamp())
	if err != nil {
		return nil, err
	}
	if err := b.save(); err != nil {
		b.store.dropLast()
		return nil, err
	}
	cp := *a
	return &cp, nil
}

// Authenticate 以帳號與 PIN 登入，成功時回傳新的 Session。
func (b *Bank) Authenticate(number int64, pin int32) (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.store.Find(number)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if a.PIN != pin {
		return nil, ErrIncorrectPIN
	}
	return newSession(b, number), nil
}

// Get 依帳號取得帳戶的目前快照（值拷貝）。
func (b *Bank) Get(number int64) (*Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.store.Find(number)
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

// List 依建立順序回傳所有帳戶的值拷貝。
func (b *Bank) List() []*Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	accts := b.store.Accounts()
	out := make([]*Account, len(accts))
	for i, a := range accts {
		cp := *a
		out[i] = &cp
	}
	return out
}

// Count 回傳帳戶數量。
func (b *Bank) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Count()
}

// NextAccountNumber 回傳下一個將被指派的帳號。
func (b *Bank) NextAccountNumber() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.NextAccountNumber()
}

// Deposit 存款：金額需 > 0。於臨界區內同時更新餘額、追加日誌並寫檔。
func (b *Bank) Deposit(number int64, amt float64) (*Account, error) {
	if !validAmount(amt) {
		return nil, ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.store.Find(number)
	if !ok {
		return nil, ErrAccountNotFound
	}
	prev := *a
	a.Balance += amt
	a.Log.Append(Transaction{Type: TxnDeposit, Amount: amt, Time: b.stamp()})
	if err := b.save(); err != nil {
		*a = prev
		return nil, err
	}
	cp := *a
	return &cp, nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額。
func (b *Bank) Withdraw(number int64, amt float64) (*Account, error) {
	if !validAmount(amt) {
		return nil, ErrInvalidAmount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.store.Find(number)
	if !ok {
		return nil, ErrAccountNotFound
	}
	if amt > a.Balance {
		return nil, ErrInsufficientFunds
	}
	prev := *a
	a.Balance -= amt
	a.Log.Append(Transaction{Type: TxnWithdraw, Amount: amt, Time: b.stamp()})
	if err := b.save(); err != nil {
		*a = prev
		return nil, err
	}
	cp := *a
	return &cp, nil
}

// Transfer 轉帳為「單一臨界區內」的原子操作：
// 1) 檢核雙方帳戶 → 2) 檢核金額與餘額 → 3) 扣款與入帳 → 4) 雙邊日誌 → 5) 寫檔一次。
// 任一步驟失敗皆不會改變任何帳戶狀態。轉給自己時 from 與 to 為同一帳戶，
// 餘額不變但仍寫入一筆 TRANSFER_OUT 與一筆 TRANSFER_IN。
func (b *Bank) Transfer(fromNo, toNo int64, amt float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	from, ok := b.store.Find(fromNo)
	if !ok {
		return ErrAccountNotFound
	}
	to, ok := b.store.Find(toNo)
	if !ok {
		return ErrRecipientNotFound
	}
	if !validAmount(amt) {
		return ErrInvalidAmount
	}
	if amt > from.Balance {
		return ErrInsufficientFunds
	}

	prevFrom, prevTo := *from, *to
	from.Balance -= amt
	to.Balance += amt

	now := b.stamp()
	from.Log.Append(Transaction{Type: TxnTransferOut, Amount: amt, Time: now, OtherAccount: toNo})
	to.Log.Append(Transaction{Type: TxnTransferIn, Amount: amt, Time: now, OtherAccount: fromNo})

	if err := b.save(); err != nil {
		*from, *to = prevFrom, prevTo
		return err
	}
	return nil
}

// ChangePIN 直接替換 PIN；格式檢核由呼叫端（console）負責。
func (b *Bank) ChangePIN(number int64, pin int32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.store.Find(number)
	if !ok {
		return ErrAccountNotFound
	}
	prev := a.PIN
	a.PIN = pin
	if err := b.save(); err != nil {
		a.PIN = prev
		return err
	}
	return nil
}

// Statement 回傳帳戶最近的交易（最舊在前）。
func (b *Bank) Statement(number int64) ([]Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.store.Find(number)
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a.Log.Entries(), nil
}

// Snapshot 匯出目前狀態供持久化。
func (b *Bank) Snapshot() storage.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Restore 以快照取代目前狀態。
// 帳號或計數器非正數、帳號重複、數量超過上限、計數器不大於既有帳號或未知交易類型皆視為 ErrCorruptFile，
// 此時原狀態不變。
func (b *Bank) Restore(s storage.Snapshot) error {
	if len(s.Accounts) > MaxAccounts {
		return fmt.Errorf("%w: %d accounts exceeds limit %d", storage.ErrCorruptFile, len(s.Accounts), MaxAccounts)
	}
	if s.NextAccountNumber <= 0 {
		return fmt.Errorf("%w: next account number %d is not positive", storage.ErrCorruptFile, s.NextAccountNumber)
	}
	st := NewStore(s.NextAccountNumber)
	for _, pa := range s.Accounts {
		if pa.Number <= 0 {
			return fmt.Errorf("%w: account number %d is not positive", storage.ErrCorruptFile, pa.Number)
		}
		if _, dup := st.Find(pa.Number); dup {
			return fmt.Errorf("%w: duplicate account %d", storage.ErrCorruptFile, pa.Number)
		}
		if pa.Number >= s.NextAccountNumber {
			return fmt.Errorf("%w: account %d not below next number %d", storage.ErrCorruptFile, pa.Number, s.NextAccountNumber)
		}
		if len(pa.Txns) > MaxTxns {
			return fmt.Errorf("%w: account %d has %d transactions", storage.ErrCorruptFile, pa.Number, len(pa.Txns))
		}
		a := &Account{Number: pa.Number, Name: pa.Name, PIN: pa.PIN, Balance: pa.Balance}
		for _, pt := range pa.Txns {
			t := TxnType(pt.Type)
			if !t.Valid() {
				return fmt.Errorf("%w: account %d has transaction type %q", storage.ErrCorruptFile, pa.Number, pt.Type)
			}
			a.Log.Append(Transaction{
				Type:         t,
				Amount:       pt.Amount,
				Time:         time.Unix(pt.Timestamp, 0),
				OtherAccount: pt.OtherAccount,
			})
		}
		st.insert(a)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.store = st
	return nil
}

func (b *Bank) snapshotLocked() storage.Snapshot {
	s := storage.Snapshot{
		Version:           storage.FormatVersion,
		NextAccountNumber: b.store.NextAccountNumber(),
	}
	for _, a := range b.store.Accounts() {
		pa := storage.PersistAccount{Number: a.Number, Name: a.Name, PIN: a.PIN, Balance: a.Balance}
		for _, t := range a.Log.Entries() {
			pa.Txns = append(pa.Txns, storage.PersistTxn{
				Type:         string(t.Type),
				Amount:       t.Amount,
				Timestamp:    t.Time.Unix(),
				OtherAccount: t.OtherAccount,
			})
		}
		s.Accounts = append(s.Accounts, pa)
	}
	return s
}

// save 必須在持有 mu 時呼叫。
func (b *Bank) save() error {
	if b.persist == nil {
		return nil
	}
	if err := b.persist.Save(b.snapshotLocked()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// stamp 回傳秒級精度的時間，與檔案內的 Unix 秒一致。
func (b *Bank) stamp() time.Time {
	return time.Unix(b.now().Unix(), 0)
}

func validAmount(amt float64) bool {
	return amt > 0 && finite(amt)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
