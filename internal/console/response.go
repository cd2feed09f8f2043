// internal/console/response.go
//
// 統一終端輸出格式與錯誤訊息對照。
package console

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"atmsim/internal/bank"
)

const timeLayout = "2006-01-02 15:04:05"

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(msg string) {
	fmt.Fprintln(c.out, msg)
}

// fail 印出業務錯誤；寫檔失敗另外以 error 等級記錄。s 可為 nil（尚未登入）。
func (c *Console) fail(s *bank.Session, op string, err error) {
	entry := c.log.WithField("op", op)
	if s != nil {
		entry = entry.WithFields(logrus.Fields{"session": s.ID, "account": s.Number()})
	}
	if errors.Is(err, bank.ErrPersistence) {
		entry.WithError(err).Error("save failed")
	} else {
		entry.WithError(err).Debug("rejected")
	}
	c.println(message(err))
}

func (c *Console) done(s *bank.Session, op string, amt float64) {
	c.log.WithFields(logrus.Fields{
		"op":      op,
		"session": s.ID,
		"account": s.Number(),
		"amount":  amt,
	}).Debug("ok")
}

// message 將領域錯誤轉為終端提示。
func message(err error) string {
	switch {
	case errors.Is(err, bank.ErrInvalidAmount):
		return "Invalid amount."
	case errors.Is(err, bank.ErrInsufficientFunds):
		return "Insufficient funds."
	case errors.Is(err, bank.ErrRecipientNotFound):
		return "Recipient not found."
	case errors.Is(err, bank.ErrAccountNotFound):
		return "Account not found."
	case errors.Is(err, bank.ErrIncorrectPIN):
		return "Incorrect PIN."
	case errors.Is(err, bank.ErrCapacityExceeded):
		return "Reached maximum account limit."
	case errors.Is(err, bank.ErrPersistence):
		return "Could not save accounts; the operation was not applied."
	case errors.Is(err, bank.ErrSessionClosed):
		return "Session closed."
	}
	return err.Error()
}

// formatTxn 輸出 mini-statement 的一行；轉帳附上對方帳號。
func formatTxn(t bank.Transaction) string {
	line := fmt.Sprintf("%s | %s | %.2f", t.Time.Local().Format(timeLayout), t.Type, t.Amount)
	if t.OtherAccount != 0 {
		line += fmt.Sprintf(" | other acc: %d", t.OtherAccount)
	}
	return line
}

// parseAmount 以十進位解析金額，拒絕格式錯誤或超過兩位小數的輸入。
// 正負號與零由 bank 層判斷（ErrInvalidAmount）。
func parseAmount(s string) (float64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	if !d.Equal(d.Round(2)) {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// parsePIN 只接受剛好 4 位數字（開戶與變更 PIN）。
func parsePIN(s string) (int32, bool) {
	if !pinPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// parseLoginPIN 接受任何 32 位元整數，比對交由 bank.Authenticate。
func parseLoginPIN(s string) (int32, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

func parseAccountNumber(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
