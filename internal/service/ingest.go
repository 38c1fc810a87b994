package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
)

// Format names a statement file format.
type Format string

const (
	FormatCSV Format = "csv" // date (YYYY-MM-DD), description, amount[, account]
	FormatANZ Format = "anz" // d/mm/yyyy, amount, description; no header
	FormatOFX Format = "ofx"
)

var ErrUnknownFormat = errors.New("unknown statement format")

// ParseFormat accepts a format name, or derives it from a file suffix when
// name is empty.
func ParseFormat(name, path string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if name == "qfx" {
			name = "ofx"
		}
	}
	switch Format(name) {
	case FormatCSV, FormatANZ, FormatOFX:
		return Format(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ImportOptions controls a single import.
type ImportOptions struct {
	Format   Format
	Account  string    // default account name
	From     time.Time // inclusive; zero = open
	To       time.Time // inclusive; zero = open
	Location *time.Location
}

// IngestResult summarises an import. Per-line problems do not stop the import.
type IngestResult struct {
	Imported    int
	Skipped     int
	Filtered    int
	Categorised int
	Errors      []error
}

// statementLine is one parsed row before storage.
type statementLine struct {
	line        int
	when        time.Time
	amountCents int64
	description string
	account     string
}

// IngestService loads statement files into the store.
type IngestService struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Categoriser  *Categoriser
	// AutoScore is the minimum suggestion score to categorise on import;
	// zero disables auto-categorisation.
	AutoScore int
	Logger    *zap.Logger

	accountCache map[string]repository.Account
}

// Import parses r in opts.Format and stores every line in range.
func (s *IngestService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (IngestResult, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	var (
		lines []statementLine
		res   IngestResult
		err   error
	)
	switch opts.Format {
	case FormatCSV:
		lines, res.Errors = parseCSV(r, opts.Location)
	case FormatANZ:
		lines, res.Errors = parseANZ(r, opts.Location)
	case FormatOFX:
		lines, err = parseOFX(r)
		if err != nil {
			return res, fmt.Errorf("parse ofx: %w", err)
		}
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	if s.Categoriser != nil && s.AutoScore > 0 {
		if err := s.Categoriser.Fit(ctx); err != nil {
			return res, fmt.Errorf("fit categoriser: %w", err)
		}
	}

	// Identical lines within one file are distinct purchases; the occurrence
	// number keeps them apart while a re-import still hashes the same.
	seen := make(map[string]int)
	for _, l := range lines {
		if !inRange(l.when, opts.From, opts.To) {
			res.Filtered++
			continue
		}
		name := l.account
		if name == "" {
			name = opts.Account
		}
		acct, err := s.accountForName(ctx, name)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d account: %w", l.line, err))
			continue
		}
		key := []string{acct.ID, l.when.Format(time.DateOnly), strconv.FormatInt(l.amountCents, 10), l.description}
		k := strings.Join(key, "|")
		n := seen[k]
		seen[k] = n + 1
		if n > 0 {
			key = append(key, strconv.Itoa(n))
		}
		t := repository.Transaction{
			ID:          uuid.NewString(),
			AccountID:   acct.ID,
			When:        l.when,
			AmountCents: l.amountCents,
			Description: l.description,
			SourceHash:  hashSource(key...),
		}
		if catID := s.autoCategory(l.description); catID != "" {
			t.CategoryID = &catID
		}
		if err := s.Transactions.Insert(ctx, t); err != nil {
			// already imported from an earlier statement
			if errors.Is(err, repository.ErrDuplicate) {
				res.Skipped++
				continue
			}
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", l.line, err))
			continue
		}
		res.Imported++
		if t.CategoryID != nil {
			res.Categorised++
		}
	}

	s.logger().Info("import finished",
		zap.String("format", string(opts.Format)),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("filtered", res.Filtered),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

// autoCategory returns a category only when exactly one suggestion clears
// the threshold.
func (s *IngestService) autoCategory(description string) string {
	if s.Categoriser == nil || s.AutoScore <= 0 {
		return ""
	}
	var hits []Suggestion
	for _, sug := range s.Categoriser.Predict(description, 0) {
		if sug.Score >= s.AutoScore {
			hits = append(hits, sug)
		}
	}
	if len(hits) != 1 {
		return ""
	}
	return hits[0].CategoryID
}

func (s *IngestService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func parseCSV(r io.Reader, loc *time.Location) ([]statementLine, []error) {
	var out []statementLine
	var errs []error
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}
		if len(rec) < 3 {
			errs = append(errs, fmt.Errorf("line %d: expected at least 3 columns (date, description, amount)", line))
			continue
		}
		date, err := parseDate("2006-01-02", rec[0], loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d date: %w", line, err))
			continue
		}
		amountCents, err := dollarsToCents(rec[2])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d amount: %w", line, err))
			continue
		}
		l := statementLine{line: line, when: date, amountCents: amountCents, description: strings.TrimSpace(rec[1])}
		if len(rec) > 3 {
			l.account = strings.TrimSpace(rec[3])
		}
		out = append(out, l)
	}
	return out, errs
}

func parseANZ(r io.Reader, loc *time.Location) ([]statementLine, []error) {
	var out []statementLine
	var errs []error
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) < 3 {
			errs = append(errs, fmt.Errorf("line %d: expected 3 columns (date, amount, description)", line))
			continue
		}
		date, err := parseDate("2/01/2006", rec[0], loc) // day/month/year
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d date: %w", line, err))
			continue
		}
		amountCents, err := dollarsToCents(rec[1])
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d amount: %w", line, err))
			continue
		}
		out = append(out, statementLine{line: line, when: date, amountCents: amountCents, description: strings.TrimSpace(rec[2])})
	}
	return out, errs
}

func inRange(when, from, to time.Time) bool {
	if !from.IsZero() && when.Before(database.Today(from)) {
		return false
	}
	if !to.IsZero() && when.After(database.Today(to)) {
		return false
	}
	return true
}

func hashSource(parts ...string) *string {
	joined := strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(joined))
	h := fmt.Sprintf("%x", sum[:])
	return &h
}

// parseDate parses a calendar date and stores it as UTC midnight of that day.
func parseDate(layout, s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(layout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, err
	}
	return database.Today(t), nil
}

func (s *IngestService) accountForName(ctx context.Context, name string) (repository.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Account{}, errors.New("account name required")
	}
	if s.accountCache == nil {
		s.accountCache = make(map[string]repository.Account)
	}
	if acct, ok := s.accountCache[name]; ok {
		return acct, nil
	}
	acct := repository.Account{ID: AccountID(name), Name: name}
	if err := s.Accounts.Upsert(ctx, acct); err != nil {
		return repository.Account{}, err
	}
	s.accountCache[name] = acct
	return acct, nil
}

// AccountID derives a stable id from an account name.
func AccountID(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("account:"+key)).String()
}
