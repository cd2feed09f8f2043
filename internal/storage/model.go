// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的結構模型。
// Snapshot 為與領域無關的純資料；檔案上的固定寬度記錄則定義於 binstore.go。
package storage

const (
	// FormatVersion 為目前寫入的檔案版本。
	FormatVersion = 1

	// NameSize 為名稱欄位寬度（NUL 補齊）。
	NameSize = 64
	// TypeSize 為交易類型標籤欄位寬度（NUL 補齊）。
	TypeSize = 16
	// TxnSlots 為每筆帳戶記錄內嵌的交易格數。
	TxnSlots = 10
)

// Snapshot 為整個帳戶登錄表的完整快照，每次變更後整份覆寫。
type Snapshot struct {
	Version           int              // 檔案版本，Load 時填入
	NextAccountNumber int64            // 下一個可用帳號
	Accounts          []PersistAccount // 依建立順序
}

// PersistAccount 為帳戶在儲存層的序列化格式。
type PersistAccount struct {
	Number  int64
	Name    string
	PIN     int32
	Balance float64
	Txns    []PersistTxn // 最舊在前，至多 TxnSlots 筆
}

// PersistTxn 為單筆交易的序列化格式。
type PersistTxn struct {
	Type         string
	Amount       float64
	Timestamp    int64 // Unix 秒
	OtherAccount int64
}
