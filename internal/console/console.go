// internal/console/console.go
//
// Package console 為操作終端 (operator console)：讀取使用者輸入、呼叫 bank 層、格式化輸出。
// 本檔負責選單與分派；handler.go 定義各選項的處理，response.go 統一輸出與錯誤訊息。
//
//   - bank：純商業邏輯，與終端 I/O 無關。
//   - console：處理輸入解析與文字呈現。
//   - storage：負責持久化，由 bank 於每次變更後同步呼叫。
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"atmsim/internal/bank"
)

const mainMenu = `
==== ATM SIMULATION ====
1) Create new account
2) Login to account
3) Exit
Choose: `

const sessionMenu = `1) Check Balance
2) Withdraw
3) Deposit
4) Transfer
5) Mini-Statement
6) Change PIN
7) Logout
Choose: `

// Console 為終端互動核心結構：
// - Bank：注入商業邏輯層（銀行核心）。
// - log：操作與寫檔失敗記錄；與終端輸出分開。
type Console struct {
	Bank *bank.Bank
	in   *bufio.Scanner
	out  io.Writer
	log  logrus.FieldLogger
}

// NewConsole 建立新的終端。log 可為 nil，此時丟棄所有紀錄。
func NewConsole(b *bank.Bank, in io.Reader, out io.Writer, log logrus.FieldLogger) *Console {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Console{Bank: b, in: bufio.NewScanner(in), out: out, log: log}
}

// Run 執行主選單直到使用者選擇離開或輸入結束；只有讀取輸入失敗才回傳錯誤。
func (c *Console) Run() error {
	for {
		c.printf("%s", mainMenu)
		choice, err := c.readLine()
		if err != nil {
			return endOfInput(err)
		}
		switch choice {
		case "1":
			err = c.createAccount()
		case "2":
			err = c.login()
		case "3":
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid choice.")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

// session 為登入後的子選單，直到登出或輸入結束。
func (c *Console) session(s *bank.Session) error {
	defer s.Logout()
	for {
		a, err := s.Account()
		if err != nil {
			c.fail(s, "session", err)
			return nil
		}
		c.printf("\nWelcome, %s (Acc %d)\n%s", a.Name, a.Number, sessionMenu)
		choice, err := c.readLine()
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			c.printf("Available balance: %.2f\n", a.Balance)
		case "2":
			err = c.withdraw(s)
		case "3":
			err = c.deposit(s)
		case "4":
			err = c.transfer(s)
		case "5":
			c.statement(s, a)
		case "6":
			err = c.changePIN(s)
		case "7":
			c.println("Logging out...")
			c.log.WithFields(logrus.Fields{"session": s.ID, "account": s.Number()}).Debug("session closed")
			return nil
		default:
			c.println("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

// readLine 讀取一行並去除前後空白；輸入結束時回傳 io.EOF。
func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// prompt 印出提示後讀取一行。
func (c *Console) prompt(msg string) (string, error) {
	c.printf("%s", msg)
	return c.readLine()
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
