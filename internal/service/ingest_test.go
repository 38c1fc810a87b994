package service

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/cattrack/cattrack/internal/database/repository"
)

func TestImportANZ(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	svc := &IngestService{Transactions: st.transactions, Accounts: st.accounts}

	loc, err := time.LoadLocation("Australia/Melbourne")
	require.NoError(t, err)

	data := strings.Join([]string{
		"3/02/2026,203.92,PAYMENT THANKYOU 528417",
		"2/02/2026,-20,DAN MURPHY'S/580 MELBOURN SPOTSWOOD",
	}, "\n")

	res, err := svc.Import(ctx, strings.NewReader(data), ImportOptions{Format: FormatANZ, Account: "ANZ Credit", Location: loc})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 0, res.Skipped)

	txs, err := st.transactions.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, "PAYMENT THANKYOU 528417", txs[0].Description)
	require.Equal(t, int64(20392), txs[0].AmountCents)
	require.Equal(t, "2026-02-03", txs[0].When.Format(time.DateOnly))
	require.Equal(t, int64(-2000), txs[1].AmountCents)
	require.Equal(t, "2026-02-02", txs[1].When.Format(time.DateOnly))
	require.Equal(t, txs[0].AccountID, txs[1].AccountID)
	require.NotNil(t, txs[0].SourceHash)

	// Re-import should skip duplicates via source hash.
	res2, err := svc.Import(ctx, strings.NewReader(data), ImportOptions{Format: FormatANZ, Account: "ANZ Credit", Location: loc})
	require.NoError(t, err)
	require.Equal(t, 0, res2.Imported)
	require.Equal(t, 2, res2.Skipped)
	require.Empty(t, res2.Errors)

	accts, err := st.accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	require.Equal(t, "ANZ Credit", accts[0].Name)
}

func TestImportCSVWithHeaderAndAccounts(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	svc := &IngestService{Transactions: st.transactions, Accounts: st.accounts}

	data := "date,description,amount,account\n" +
		"2026-02-01,WOOLWORTHS 123,-45.67,Everyday\n" +
		"2026-02-03,SALARY,\"2,500.00\",Salary\n" +
		"2026-02-04,COFFEE,-4.50\n"

	res, err := svc.Import(ctx, strings.NewReader(data), ImportOptions{Format: FormatCSV, Account: "Default", Location: time.UTC})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 3, res.Imported)

	accts, err := st.accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 3)

	salary, err := st.transactions.List(ctx, repository.TransactionFilters{Search: "salary"})
	require.NoError(t, err)
	require.Len(t, salary, 1)
	require.Equal(t, int64(250000), salary[0].AmountCents)
}

func TestImportCSVErrorsDoNotStopImport(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	svc := &IngestService{Transactions: st.transactions, Accounts: st.accounts}

	data := "2026-02-01,OK,-1.00\n" +
		"not-a-date,BAD DATE,-1.00\n" +
		"2026-02-02,BAD AMOUNT,abc\n" +
		"2026-02-03,SHORT\n"

	res, err := svc.Import(ctx, strings.NewReader(data), ImportOptions{Format: FormatCSV, Account: "Everyday", Location: time.UTC})
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 3)
	require.Contains(t, res.Errors[0].Error(), "line 2")
}

func TestImportDateRangeFilter(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	svc := &IngestService{Transactions: st.transactions, Accounts: st.accounts}

	data := "2026-01-31,BEFORE,-1\n2026-02-01,FIRST,-1\n2026-02-28,LAST,-1\n2026-03-01,AFTER,-1\n"
	res, err := svc.Import(ctx, strings.NewReader(data), ImportOptions{
		Format:   FormatCSV,
		Account:  "Everyday",
		From:     day("2026-02-01"),
		To:       day("2026-02-28"),
		Location: time.UTC,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 2, res.Filtered)
}

func TestImportAutoCategorises(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	groceries := categoryID(t, ctx, st, "Groceries")
	insertTx(t, ctx, st, "Everyday", "2026-01-05", -3000, "WOOLWORTHS 1234 RICHMOND", groceries)

	svc := &IngestService{
		Transactions: st.transactions,
		Accounts:     st.accounts,
		Categoriser:  &Categoriser{Transactions: st.transactions, Categories: st.categories},
		AutoScore:    90,
	}
	data := "2026-02-01,WOOLWORTHS 9876 RICHMOND,-12.00\n2026-02-02,UNKNOWN SHOP,-5.00\n"
	res, err := svc.Import(ctx, strings.NewReader(data), ImportOptions{Format: FormatCSV, Account: "Everyday", Location: time.UTC})
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 1, res.Categorised)

	got, err := st.transactions.List(ctx, repository.TransactionFilters{CategoryID: groceries})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", "statement.OFX")
	require.NoError(t, err)
	require.Equal(t, FormatOFX, f)

	f, err = ParseFormat("ANZ", "x.csv")
	require.NoError(t, err)
	require.Equal(t, FormatANZ, f)

	_, err = ParseFormat("", "statement.qif")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestImportKeepsRepeatedLines(t *testing.T) {
	t.Parallel()
	st, ctx := setupStore(t)
	svc := &IngestService{Transactions: st.transactions, Accounts: st.accounts}

	data := "2026-02-04,COFFEE CLUB,-4.50\n" +
		"2026-02-04,COFFEE CLUB,-4.50\n" +
		"2026-02-05,COFFEE CLUB,-4.50\n"
	opts := ImportOptions{Format: FormatCSV, Account: "Everyday", Location: time.UTC}

	res, err := svc.Import(ctx, strings.NewReader(data), opts)
	require.NoError(t, err)
	require.Equal(t, 3, res.Imported)
	require.Zero(t, res.Skipped)

	res, err = svc.Import(ctx, strings.NewReader(data), opts)
	require.NoError(t, err)
	require.Zero(t, res.Imported)
	require.Equal(t, 3, res.Skipped)

	// A later statement overlapping by one repeat adds only the new one.
	res, err = svc.Import(ctx, strings.NewReader(data+"2026-02-04,COFFEE CLUB,-4.50\n"), opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, 3, res.Skipped)

	n, err := st.transactions.Count(ctx, repository.TransactionFilters{Search: "coffee"})
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
