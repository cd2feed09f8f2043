package bank

import "testing"

func TestTransactionLogRotation(t *testing.T) {
	var l TransactionLog
	for i := 1; i <= MaxTxns+1; i++ {
		l.Append(Transaction{Type: TxnDeposit, Amount: float64(i)})
	}
	got := l.Entries()
	if len(got) != MaxTxns || l.Len() != MaxTxns {
		t.Fatalf("len=%d want %d", len(got), MaxTxns)
	}
	for i, tx := range got {
		if want := float64(i + 2); tx.Amount != want {
			t.Fatalf("entry %d amount=%v want %v", i, tx.Amount, want)
		}
	}
}

func TestTransactionLogPartial(t *testing.T) {
	var l TransactionLog
	if len(l.Entries()) != 0 {
		t.Fatal("empty log should have no entries")
	}
	l.Append(Transaction{Type: TxnWithdraw, Amount: 3})
	l.Append(Transaction{Type: TxnTransferIn, Amount: 4, OtherAccount: 100100})
	got := l.Entries()
	if len(got) != 2 || got[0].Type != TxnWithdraw || got[1].OtherAccount != 100100 {
		t.Fatalf("entries=%+v", got)
	}
}

// Entries 回傳副本，修改不影響日誌本身；Account 值拷貝亦不共用日誌。
func TestTransactionLogCopies(t *testing.T) {
	a := Account{Number: 1}
	a.Log.Append(Transaction{Type: TxnDeposit, Amount: 1})

	e := a.Log.Entries()
	e[0].Amount = 99
	cp := a
	cp.Log.Append(Transaction{Type: TxnDeposit, Amount: 2})

	if a.Log.Len() != 1 || a.Log.Entries()[0].Amount != 1 {
		t.Fatalf("source log mutated: %+v", a.Log.Entries())
	}
}

func TestTxnTypeValid(t *testing.T) {
	for _, tt := range []TxnType{TxnDeposit, TxnWithdraw, TxnTransferOut, TxnTransferIn} {
		if !tt.Valid() {
			t.Fatalf("%s should be valid", tt)
		}
	}
	if TxnType("TRANSFER").Valid() {
		t.Fatal("TRANSFER should be invalid")
	}
}
