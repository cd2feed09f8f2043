// internal/storage/binstore.go
//
// 提供 Snapshot 的固定寬度二進位序列化與反序列化。
// 所有欄位皆為 little-endian，欄位寬度明確定義，與主機位元組序及 struct 對齊無關：
//
//	header:  magic "ATMS" | version uint16 | count uint32 | next int64
//	account: number int64 | name [64]byte | pin int32 | balance float64
//	         | 10 × {type [16]byte | amount float64 | ts int64 | other int64}
//	         | txn count uint32
//
// 寫入採 truncate-then-write，不做 rename；寫到一半失敗會留下毀損檔案，
// 由 Load 以 ErrCorruptFile 回報，而非當成空資料。
package storage

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrCorruptFile 代表檔案長度、魔數、版本或欄位內容不符格式。
	ErrCorruptFile = errors.New("corrupt data file")

	// ErrFieldOverflow 代表快照內容放不進固定寬度欄位。
	ErrFieldOverflow = errors.New("value does not fit fixed-width field")
)

var magic = [4]byte{'A', 'T', 'M', 'S'}

type fileHeader struct {
	Magic   [4]byte
	Version uint16
	Count   uint32
	Next    int64
}

type txnRecord struct {
	Type      [TypeSize]byte
	Amount    float64
	Timestamp int64
	Other     int64
}

type accountRecord struct {
	Number   int64
	Name     [NameSize]byte
	PIN      int32
	Balance  float64
	Txns     [TxnSlots]txnRecord
	TxnCount uint32
}

// FileStore 以單一檔案保存快照，供 bank 層注入使用。
type FileStore struct {
	Path string
}

// NewFileStore 建立指向 path 的 FileStore。
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save 覆寫整個檔案。
func (s *FileStore) Save(snap Snapshot) error {
	return SaveSnapshot(s.Path, snap)
}

// Load 讀取整個檔案；檔案不存在時回傳的錯誤可用 errors.Is(err, fs.ErrNotExist) 判斷。
func (s *FileStore) Load() (Snapshot, error) {
	return LoadSnapshot(s.Path)
}

// SaveSnapshot 先在記憶體完成編碼，欄位溢位時不碰觸既有檔案；
// 之後以 truncate-then-write 寫入 path。
func SaveSnapshot(path string, snap Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadSnapshot 讀取並解碼 path。
func LoadSnapshot(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// Encode 將 snap 以固定寬度格式寫入 w。
func Encode(w io.Writer, snap Snapshot) error {
	if uint64(len(snap.Accounts)) > uint64(^uint32(0)) {
		return fmt.Errorf("account count %d: %w", len(snap.Accounts), ErrFieldOverflow)
	}
	hdr := fileHeader{
		Magic:   magic,
		Version: FormatVersion,
		Count:   uint32(len(snap.Accounts)),
		Next:    snap.NextAccountNumber,
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	for i := range snap.Accounts {
		rec, err := toRecord(&snap.Accounts[i])
		if err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return nil
}

// Decode 從 r 讀取完整快照；長度不足或有多餘資料皆視為 ErrCorruptFile。
func Decode(r io.Reader) (Snapshot, error) {
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return Snapshot{}, corrupt("header", err)
	}
	if hdr.Magic != magic {
		return Snapshot{}, fmt.Errorf("%w: bad magic %q", ErrCorruptFile, hdr.Magic[:])
	}
	if hdr.Version != FormatVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptFile, hdr.Version)
	}

	snap := Snapshot{
		Version:           int(hdr.Version),
		NextAccountNumber: hdr.Next,
		Accounts:          make([]PersistAccount, 0, min(hdr.Count, 256)),
	}
	for i := uint32(0); i < hdr.Count; i++ {
		var rec accountRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return Snapshot{}, corrupt(fmt.Sprintf("account record %d of %d", i+1, hdr.Count), err)
		}
		pa, err := fromRecord(&rec)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Accounts = append(snap.Accounts, pa)
	}

	var extra [1]byte
	if n, _ := io.ReadFull(r, extra[:]); n > 0 {
		return Snapshot{}, fmt.Errorf("%w: trailing data after %d records", ErrCorruptFile, hdr.Count)
	}
	return snap, nil
}

func toRecord(pa *PersistAccount) (*accountRecord, error) {
	if len(pa.Name) > NameSize {
		return nil, fmt.Errorf("account %d name: %w", pa.Number, ErrFieldOverflow)
	}
	if len(pa.Txns) > TxnSlots {
		return nil, fmt.Errorf("account %d has %d transactions: %w", pa.Number, len(pa.Txns), ErrFieldOverflow)
	}
	rec := &accountRecord{
		Number:   pa.Number,
		PIN:      pa.PIN,
		Balance:  pa.Balance,
		TxnCount: uint32(len(pa.Txns)),
	}
	copy(rec.Name[:], pa.Name)
	for i, t := range pa.Txns {
		if len(t.Type) > TypeSize {
			return nil, fmt.Errorf("account %d transaction type %q: %w", pa.Number, t.Type, ErrFieldOverflow)
		}
		copy(rec.Txns[i].Type[:], t.Type)
		rec.Txns[i].Amount = t.Amount
		rec.Txns[i].Timestamp = t.Timestamp
		rec.Txns[i].Other = t.OtherAccount
	}
	return rec, nil
}

func fromRecord(rec *accountRecord) (PersistAccount, error) {
	if rec.TxnCount > TxnSlots {
		return PersistAccount{}, fmt.Errorf("%w: account %d has transaction count %d", ErrCorruptFile, rec.Number, rec.TxnCount)
	}
	pa := PersistAccount{
		Number:  rec.Number,
		Name:    trimNUL(rec.Name[:]),
		PIN:     rec.PIN,
		Balance: rec.Balance,
		Txns:    make([]PersistTxn, rec.TxnCount),
	}
	for i := range pa.Txns {
		t := &rec.Txns[i]
		pa.Txns[i] = PersistTxn{
			Type:         trimNUL(t.Type[:]),
			Amount:       t.Amount,
			Timestamp:    t.Timestamp,
			OtherAccount: t.Other,
		}
	}
	return pa, nil
}

func trimNUL(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

func corrupt(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: short read in %s", ErrCorruptFile, what)
	}
	return fmt.Errorf("read %s: %w", what, err)
}
