// internal/console/handler.go
//
// 每個 handler 僅負責：
//  1. 讀取與驗證輸入
//  2. 呼叫 bank 層執行商業邏輯
//  3. 輸出結果或錯誤訊息
//
// 回傳的 error 只代表輸入中斷；業務錯誤一律印出後繼續選單。
package console

import (
	"github.com/sirupsen/logrus"

	"atmsim/internal/bank"
)

// createAccount 處理選單「Create new account」。
func (c *Console) createAccount() error {
	name, err := c.prompt("Enter customer name: ")
	if err != nil {
		return err
	}
	raw, err := c.prompt("Set 4-digit PIN (numbers only): ")
	if err != nil {
		return err
	}
	pin, ok := parsePIN(raw)
	if !ok {
		c.println("Invalid input.")
		return nil
	}
	raw, err = c.prompt("Initial deposit amount: ")
	if err != nil {
		return err
	}
	amt, ok := parseAmount(raw)
	if !ok {
		c.println("Invalid input.")
		return nil
	}
	if amt < 0 {
		c.println("Invalid amount.")
		return nil
	}

	a, err := c.Bank.Create(name, pin, amt)
	if err != nil {
		c.fail(nil, "create", err)
		return nil
	}
	c.log.WithFields(logrus.Fields{"op": "create", "account": a.Number}).Debug("account created")
	c.printf("Account created successfully!\nAccount Number: %d\n", a.Number)
	return nil
}

// login 驗證帳號與 PIN，成功後進入 session 子選單。
func (c *Console) login() error {
	raw, err := c.prompt("Enter account number: ")
	if err != nil {
		return err
	}
	number, ok := parseAccountNumber(raw)
	if !ok {
		c.println("Invalid input.")
		return nil
	}
	raw, err = c.prompt("Enter PIN: ")
	if err != nil {
		return err
	}
	pin, ok := parseLoginPIN(raw)
	if !ok {
		c.println("Invalid input.")
		return nil
	}

	s, err := c.Bank.Authenticate(number, pin)
	if err != nil {
		c.log.WithFields(logrus.Fields{"op": "login", "account": number}).Info(err)
		c.println(message(err))
		return nil
	}
	c.log.WithFields(logrus.Fields{"session": s.ID, "account": number}).Debug("session opened")
	return c.session(s)
}

func (c *Console) withdraw(s *bank.Session) error {
	raw, err := c.prompt("Enter amount to withdraw: ")
	if err != nil {
		return err
	}
	amt, ok := parseAmount(raw)
	if !ok {
		c.println("Invalid.")
		return nil
	}
	a, err := s.Withdraw(amt)
	if err != nil {
		c.fail(s, "withdraw", err)
		return nil
	}
	c.done(s, "withdraw", amt)
	c.printf("Withdrawn %.2f. New balance: %.2f\n", amt, a.Balance)
	return nil
}

func (c *Console) deposit(s *bank.Session) error {
	raw, err := c.prompt("Enter amount to deposit: ")
	if err != nil {
		return err
	}
	amt, ok := parseAmount(raw)
	if !ok {
		c.println("Invalid.")
		return nil
	}
	a, err := s.Deposit(amt)
	if err != nil {
		c.fail(s, "deposit", err)
		return nil
	}
	c.done(s, "deposit", amt)
	c.printf("Deposited %.2f. New balance: %.2f\n", amt, a.Balance)
	return nil
}

// transfer 先確認收款帳戶存在再詢問金額；最終檢核仍由 bank.Transfer 完成。
func (c *Console) transfer(s *bank.Session) error {
	raw, err := c.prompt("Enter recipient account number: ")
	if err != nil {
		return err
	}
	to, ok := parseAccountNumber(raw)
	if !ok {
		c.println("Invalid.")
		return nil
	}
	if _, err := c.Bank.Get(to); err != nil {
		c.fail(s, "transfer", bank.ErrRecipientNotFound)
		return nil
	}
	raw, err = c.prompt("Enter amount to transfer: ")
	if err != nil {
		return err
	}
	amt, ok := parseAmount(raw)
	if !ok {
		c.println("Invalid.")
		return nil
	}
	if err := s.Transfer(to, amt); err != nil {
		c.fail(s, "transfer", err)
		return nil
	}
	c.done(s, "transfer", amt)
	bal, err := s.Balance()
	if err != nil {
		c.fail(s, "transfer", err)
		return nil
	}
	c.printf("Transferred %.2f to %d. Your new balance: %.2f\n", amt, to, bal)
	return nil
}

func (c *Console) statement(s *bank.Session, a *bank.Account) {
	txns, err := s.Statement()
	if err != nil {
		c.fail(s, "statement", err)
		return
	}
	c.printf("Mini-statement for %s (Acc: %d)\n", a.Name, a.Number)
	c.println("Recent transactions (most recent last):")
	for _, t := range txns {
		c.println(formatTxn(t))
	}
}

func (c *Console) changePIN(s *bank.Session) error {
	raw, err := c.prompt("Enter new 4-digit PIN: ")
	if err != nil {
		return err
	}
	pin, ok := parsePIN(raw)
	if !ok {
		c.println("Invalid.")
		return nil
	}
	if err := s.ChangePIN(pin); err != nil {
		c.fail(s, "change_pin", err)
		return nil
	}
	c.log.WithFields(logrus.Fields{"op": "change_pin", "session": s.ID, "account": s.Number()}).Debug("ok")
	c.println("PIN changed successfully.")
	return nil
}
