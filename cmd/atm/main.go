// cmd/atm/main.go

// 單機 ATM 模擬終端。
// 此檔案負責初始化模組（config, storage, bank, console），
// 啟動時由資料檔載入帳戶登錄表，之後每次變更皆由 bank 同步寫回。

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"atmsim/internal/bank"
	"atmsim/internal/config"
	"atmsim/internal/console"
	"atmsim/internal/storage"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// 載入失敗代表登錄表不可用，而非空白登錄表；僅檔案不存在時以空白啟動
	b, err := bank.Open(storage.NewFileStore(cfg.DataFile), bank.WithFirstAccountNumber(cfg.FirstAccountNumber))
	if err != nil {
		log.WithError(err).WithField("file", cfg.DataFile).Fatal("account registry unavailable")
	}
	log.WithFields(logrus.Fields{
		"file":     cfg.DataFile,
		"accounts": b.Count(),
		"next":     b.NextAccountNumber(),
	}).Info("account registry loaded")

	// 每次變更已同步寫檔，收到訊號時直接結束即可
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		log.WithField("signal", sig.String()).Info("shutting down")
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	c := console.NewConsole(b, os.Stdin, os.Stdout, log)
	if err := c.Run(); err != nil {
		log.WithError(err).Fatal("console input failed")
	}
}
