// internal/console/console_test.go
//
// 以腳本化輸入模擬完整終端流程，驗證輸出文字、bank 狀態與寫檔失敗的記錄。
package console

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"atmsim/internal/bank"
	"atmsim/internal/storage"
)

func run(t *testing.T, b *bank.Bank, script string) string {
	t.Helper()
	var out bytes.Buffer
	logger, _ := test.NewNullLogger()
	if err := NewConsole(b, strings.NewReader(script), &out, logger).Run(); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	return out.String()
}

func expectAll(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, out)
		}
	}
}

func TestConsoleFullFlow(t *testing.T) {
	b := bank.NewBank(nil)
	script := strings.Join([]string{
		"1", "Alice", "1111", "500",
		"1", "Bob", "2222", "0",
		"2", "100100", "1111",
		"2", "200",
		"2", "400",
		"4", "100101", "100",
		"4", "999",
		"1",
		"5",
		"6", "4321",
		"7",
		"2", "100100", "1111",
		"2", "424242", "1111",
		"3",
	}, "\n") + "\n"

	out := run(t, b, script)
	expectAll(t, out,
		"Account Number: 100100",
		"Account Number: 100101",
		"Welcome, Alice (Acc 100100)",
		"Withdrawn 200.00. New balance: 300.00",
		"Insufficient funds.",
		"Transferred 100.00 to 100101. Your new balance: 200.00",
		"Recipient not found.",
		"Available balance: 200.00",
		"Mini-statement for Alice (Acc: 100100)",
		"| WITHDRAW | 200.00\n",
		"| TRANSFER_OUT | 100.00 | other acc: 100101",
		"PIN changed successfully.",
		"Logging out...",
		"Incorrect PIN.",
		"Account not found.",
		"Goodbye!",
	)

	bob, err := b.Get(100101)
	if err != nil || bob.Balance != 100 {
		t.Fatalf("bob=%+v err=%v", bob, err)
	}
	if _, err := b.Authenticate(100100, 4321); err != nil {
		t.Fatalf("new pin not applied: %v", err)
	}
}

func TestConsoleInvalidInput(t *testing.T) {
	b := bank.NewBank(nil)
	script := strings.Join([]string{
		"9",
		"1", "Carol", "12a4",
		"1", "Carol", "1234", "abc",
		"1", "Eve", "1234", "1.005",
		"1", "Dan", "1234", "-5",
		"2", "abc",
	}, "\n") + "\n"

	out := run(t, b, script)
	expectAll(t, out, "Invalid choice.", "Invalid input.", "Invalid amount.")
	if b.Count() != 0 {
		t.Fatalf("count=%d want 0", b.Count())
	}
}

func TestConsoleSessionInvalidInput(t *testing.T) {
	b := bank.NewBank(nil)
	if _, err := b.Create("Alice", 1111, 50); err != nil {
		t.Fatal(err)
	}
	script := strings.Join([]string{
		"2", "100100", "1111",
		"8",
		"2", "x",
		"3", "0",
		"6", "12",
		"4", "100100", "0",
		"7",
	}, "\n") + "\n"

	out := run(t, b, script)
	expectAll(t, out, "Invalid choice.", "Invalid.", "Invalid amount.")
	a, _ := b.Get(100100)
	if a.Balance != 50 || a.PIN != 1111 || a.Log.Len() != 1 {
		t.Fatalf("account changed: %+v", a)
	}
}

// TestConsoleTransferToSelf 驗證轉給自己時餘額不變並留下雙邊日誌。
func TestConsoleTransferToSelf(t *testing.T) {
	b := bank.NewBank(nil)
	if _, err := b.Create("Alice", 1111, 50); err != nil {
		t.Fatal(err)
	}
	out := run(t, b, "2\n100100\n1111\n4\n100100\n20\n7\n")
	expectAll(t, out, "Transferred 20.00 to 100100. Your new balance: 50.00")
	a, _ := b.Get(100100)
	if a.Balance != 50 || a.Log.Len() != 3 {
		t.Fatalf("account=%+v", a)
	}
}

// TestConsoleEndOfInputInSession 驗證輸入在 session 中結束時正常返回。
func TestConsoleEndOfInputInSession(t *testing.T) {
	b := bank.NewBank(nil)
	if _, err := b.Create("Alice", 1111, 50); err != nil {
		t.Fatal(err)
	}
	out := run(t, b, "2\n100100\n1111\n3\n25\n")
	expectAll(t, out, "Deposited 25.00. New balance: 75.00")
}

type brokenStore struct{}

func (brokenStore) Save(storage.Snapshot) error { return errors.New("read-only file system") }
func (brokenStore) Load() (storage.Snapshot, error) {
	return storage.Snapshot{}, os.ErrNotExist
}

func TestConsolePersistenceFailure(t *testing.T) {
	b, err := bank.Open(brokenStore{})
	if err != nil {
		t.Fatal(err)
	}
	logger, hook := test.NewNullLogger()
	var out bytes.Buffer
	c := NewConsole(b, strings.NewReader("1\nAlice\n1111\n500\n3\n"), &out, logger)
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	expectAll(t, out.String(), "Could not save accounts; the operation was not applied.")
	if b.Count() != 0 {
		t.Fatalf("count=%d want 0", b.Count())
	}
	last := hook.LastEntry()
	if last == nil || last.Level != logrus.ErrorLevel || last.Data["op"] != "create" {
		t.Fatalf("expected error log for create, got %+v", last)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"500", 500, true},
		{"12.50", 12.5, true},
		{"12.500", 12.5, true},
		{"-3", -3, true},
		{"1.005", 0, false},
		{"", 0, false},
		{"ten", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseAmount(%q)=%v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParsePIN(t *testing.T) {
	for in, ok := range map[string]bool{"1234": true, "0007": true, "123": false, "12345": false, "-123": false, "12a4": false} {
		if _, got := parsePIN(in); got != ok {
			t.Errorf("parsePIN(%q) ok=%v want %v", in, got, ok)
		}
	}
}

func TestFormatTxn(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	got := formatTxn(bank.Transaction{Type: bank.TxnTransferIn, Amount: 100, Time: ts, OtherAccount: 100100})
	if want := "2025-01-02 03:04:05 | TRANSFER_IN | 100.00 | other acc: 100100"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	got = formatTxn(bank.Transaction{Type: bank.TxnDeposit, Amount: 0.5, Time: ts})
	if want := "2025-01-02 03:04:05 | DEPOSIT | 0.50"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
