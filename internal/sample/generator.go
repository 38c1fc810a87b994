// Package sample fills a database with believable demo transactions.
package sample

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Accounts     *repository.AccountRepo
	Categories   *repository.CategoryRepo
	Transactions *repository.TransactionRepo
}

type merchant struct {
	description string
	category    string
	minCents    int64
	maxCents    int64
}

var merchants = []merchant{
	{"WOOLWORTHS 1234 SYDNEY", "Groceries", 2000, 18000},
	{"COLES 0423 NEWTOWN", "Groceries", 1500, 14000},
	{"UBER EATS* SUSHI", "Restaurants", 1800, 6500},
	{"OPAL TRAVEL", "Transport", 350, 1800},
	{"AMAZON.COM*XYZ", "Shopping", 1200, 25000},
	{"SPOTIFY P1234", "Subscriptions", 1399, 1399},
	{"AGL ENERGY", "Utilities", 8000, 24000},
	{"CHEMIST WAREHOUSE", "Health", 900, 7000},
	{"EVENT CINEMAS", "Entertainment", 1600, 4800},
}

// Options controls Seed.
type Options struct {
	Account string
	Days    int   // history length ending today
	Count   int   // spend transactions
	Seed    int64 // rand seed; the same seed gives the same data
}

// Seed creates one account with a fortnightly salary and random spending.
// Roughly half of the spending is categorised so suggestions have something
// to learn from. It returns how many transactions were inserted.
func Seed(ctx context.Context, repos Repos, today time.Time, opts Options) (int, error) {
	if opts.Account == "" {
		opts.Account = "Sample Everyday"
	}
	if opts.Days <= 0 {
		opts.Days = 90
	}
	if opts.Count <= 0 {
		opts.Count = 120
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	today = database.Today(today)

	acct := repository.Account{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("sample:"+opts.Account)).String(), Name: opts.Account}
	if err := repos.Accounts.Upsert(ctx, acct); err != nil {
		return 0, fmt.Errorf("sample account: %w", err)
	}

	categoryIDs := map[string]string{}
	cats, err := repos.Categories.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range cats {
		categoryIDs[c.Name] = c.ID
	}

	inserted := 0
	insert := func(t repository.Transaction) error {
		hash := "sample:" + acct.ID + ":" + strconv.Itoa(inserted) + ":" + t.When.Format(time.DateOnly) + ":" + t.Description
		t.ID = uuid.NewString()
		t.AccountID = acct.ID
		t.SourceHash = &hash
		err := repos.Transactions.Insert(ctx, t)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		if err != nil {
			return err
		}
		inserted++
		return nil
	}

	start := today.AddDate(0, 0, -opts.Days)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 14) {
		t := repository.Transaction{When: d, AmountCents: 320000, Description: "SALARY ACME PTY LTD"}
		if id, ok := categoryIDs["Income"]; ok {
			t.CategoryID = &id
		}
		if err := insert(t); err != nil {
			return inserted, err
		}
	}

	for i := 0; i < opts.Count; i++ {
		m := merchants[rng.Intn(len(merchants))]
		cents := m.minCents
		if m.maxCents > m.minCents {
			cents += rng.Int63n(m.maxCents - m.minCents)
		}
		t := repository.Transaction{
			When:        today.AddDate(0, 0, -rng.Intn(opts.Days+1)),
			AmountCents: -cents,
			Description: m.description,
		}
		if id, ok := categoryIDs[m.category]; ok && rng.Intn(2) == 0 {
			t.CategoryID = &id
		}
		if err := insert(t); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}
