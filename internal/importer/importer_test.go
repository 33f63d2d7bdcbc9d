package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) *File {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	defer f.Close()

	file, err := DefaultRegistry().Read(Upload{Name: name, Body: f}, "")
	require.NoError(t, err)
	return file
}

func readString(t *testing.T, name, data string) (*File, error) {
	t.Helper()
	return DefaultRegistry().Read(Upload{Name: name, Body: strings.NewReader(data)}, "")
}

func TestBankParser_Fixture(t *testing.T) {
	file := readFixture(t, "td-bank.csv")
	assert.Equal(t, "bank", file.Format)
	require.Len(t, file.Rows, 8)

	first := file.Rows[0]
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "PAYROLL DEPOSIT ACME CORP", first.Description)
	assert.Equal(t, "DIRECTDEP", first.TxnType)
	assert.Equal(t, "", first.Debit)
	assert.Equal(t, "2500.00", first.Credit)

	assert.Equal(t, "1,200.00", file.Rows[3].Debit)
}

func TestBankParser_BadDateSkipped(t *testing.T) {
	file := readFixture(t, "td-bank.csv")
	require.Equal(t, 1, file.Skipped())

	pe := file.Problems[0]
	assert.Equal(t, "td-bank.csv", pe.File)
	assert.Equal(t, 9, pe.Line)
	assert.Equal(t, "9/31/2025", pe.Value)
	assert.ErrorIs(t, pe, ErrBadDate)
	assert.False(t, pe.FileLevel())
}

func TestCardParser_Fixture(t *testing.T) {
	file := readFixture(t, "chase-freedom.csv")
	assert.Equal(t, "card", file.Format)
	require.Len(t, file.Rows, 7)
	assert.Zero(t, file.Skipped())

	first := file.Rows[0]
	assert.Equal(t, "STARBUCKS STORE 07925", first.Description)
	assert.Equal(t, "-7.45", first.Amount)
	assert.Equal(t, "", first.Category)
	assert.Equal(t, "Sale", first.TxnType)
	assert.Equal(t, 22, first.Date.Day())

	assert.Equal(t, "Payment", file.Rows[3].TxnType)
	assert.Equal(t, "Bills & Utilities", file.Rows[5].Category)
}

func TestCardParser_FallsBackToPostDate(t *testing.T) {
	data := "Transaction Date,Post Date,Description,Amount\n,09/23/2025,LATE POST,-1.00\n"
	file, err := readString(t, "card.csv", data)
	require.NoError(t, err)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, 23, file.Rows[0].Date.Day())
}

func TestCardParser_EmbeddedCardNumber(t *testing.T) {
	data := "Transaction Date,Card No.,Description,Amount\n2025-09-22,2568,STARBUCKS,-7.45\n"
	file, err := readString(t, "card.csv", data)
	require.NoError(t, err)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, "2568", file.Rows[0].AccountNumber)
}

func TestHeaderlessParser_Fixture(t *testing.T) {
	file := readFixture(t, "wells-checking.csv")
	assert.Equal(t, "headerless", file.Format)
	require.Len(t, file.Rows, 3)
	assert.Equal(t, 1, file.Skipped())

	assert.Equal(t, 1, file.Rows[0].Line)
	assert.Equal(t, "-60.00", file.Rows[0].Amount)
	assert.Equal(t, "ATM WITHDRAWAL 0923 MAIN ST", file.Rows[0].Description)
	assert.Equal(t, 4, file.Problems[0].Line)
}

func TestHeaderlessParser_ShortRecord(t *testing.T) {
	data := "09/03/2025,-1.00,*,,A\n09/04/2025,-2.00\n"
	file, err := readString(t, "short.csv", data)
	require.NoError(t, err)
	assert.Len(t, file.Rows, 1)
	require.Equal(t, 1, file.Skipped())
	assert.ErrorIs(t, file.Problems[0], ErrMissingColumn)
}

func TestGenericParser_ChaseChecking(t *testing.T) {
	file := readFixture(t, "chase_checking.csv")
	assert.Equal(t, "generic", file.Format)
	require.Len(t, file.Rows, 6)

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", file.Rows[0].Description)
	assert.Equal(t, "-4.00", file.Rows[0].Amount)
	assert.Equal(t, "ACH_DEBIT", file.Rows[0].TxnType)
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", file.Rows[3].Description)
	assert.Equal(t, "3500.00", file.Rows[3].Amount)
}

func TestParsers_KeepRawDescription(t *testing.T) {
	data := "Date,Transaction Type,Description,Debit,Credit\n09/01/2025,DEBIT,\"  GIANT   FOOD \",5.00,\n"
	file, err := readString(t, "td-bank.csv", data)
	require.NoError(t, err)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, "  GIANT   FOOD ", file.Rows[0].Description)
	assert.Equal(t, "5.00", file.Rows[0].Debit)
}

func TestGenericParser_SplitColumns(t *testing.T) {
	data := "Posted Date,Payee,Debits,Credits\n2025-09-02,CORNER MARKET,12.50,\n"
	file, err := readString(t, "split.csv", data)
	require.NoError(t, err)
	assert.Equal(t, "generic", file.Format)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, "CORNER MARKET", file.Rows[0].Description)
	assert.Equal(t, "12.50", file.Rows[0].Debit)
}

func TestGenericParser_EmbeddedAccount(t *testing.T) {
	data := "date,description,amount,account\n2025-09-02,COFFEE,-3.00,Joint Checking\n"
	file, err := readString(t, "export.csv", data)
	require.NoError(t, err)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, "Joint Checking", file.Rows[0].Account)
}

func TestGenericParser_NoUsableHeader(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "..", "testdata", "unknown.csv"))
	require.NoError(t, err)
	defer f.Close()

	_, err = DefaultRegistry().Read(Upload{Name: "unknown.csv", Body: f}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHeader)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.FileLevel())
	assert.Equal(t, "unknown.csv", pe.File)
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := readString(t, "empty.csv", "")
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestRead_BlankRowsIgnored(t *testing.T) {
	data := "Transaction Date,Description,Amount\n,,\n09/22/2025,A,-1.00\n"
	file, err := readString(t, "blank.csv", data)
	require.NoError(t, err)
	assert.Len(t, file.Rows, 1)
	assert.Zero(t, file.Skipped())
}

func TestRead_ByteOrderMark(t *testing.T) {
	data := "\xef\xbb\xbfDate,Transaction Type,Description,Debit,Credit\n09/01/2025,DEBIT,X,1.00,\n"
	file, err := readString(t, "bom.csv", data)
	require.NoError(t, err)
	assert.Equal(t, "bank", file.Format)
}

func TestRead_ForcedFormat(t *testing.T) {
	data := "Date,Description,Amount\n09/01/2025,X,-1.00\n"
	file, err := DefaultRegistry().Read(Upload{Name: "x.csv", Body: strings.NewReader(data)}, "generic")
	require.NoError(t, err)
	assert.Equal(t, "generic", file.Format)

	_, err = DefaultRegistry().Read(Upload{Name: "x.csv", Body: strings.NewReader(data)}, "nope")
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&BankParser{})
	assert.NotNil(t, r.Get("Bank"))
	assert.NotNil(t, r.Get("BANK"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CardParser{})
	assert.Panics(t, func() { r.Register(&CardParser{}) })
}

func TestRegistry_DetectOrder(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		header []string
		want   string
	}{
		{[]string{"Date", "Transaction Type", "Description", "Debit", "Credit"}, "bank"},
		{[]string{"Transaction Date", "Post Date", "Description", "Category", "Type", "Amount", "Memo"}, "card"},
		{[]string{"Trans. Date", "Post Date", "Description", "Amount", "Category"}, "card"},
		{[]string{"8/26/2025", "-100", "*", "", "ATM WITHDRAWAL"}, "headerless"},
		{[]string{"Posting Date", "Description", "Amount"}, "generic"},
	}
	for _, tt := range tests {
		p := r.Detect(tt.header)
		require.NotNil(t, p)
		assert.Equal(t, tt.want, p.Format(), "header %v", tt.header)
	}
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "other.txt"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	processedDir := filepath.Join(importDir, "processed")
	require.NoError(t, os.MkdirAll(processedDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(importDir, "new.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "new.CSV", files[0].Name)
}

func TestScan_EmptyDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(importDir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "bank.csv"))
	assert.NoError(t, err)
}
