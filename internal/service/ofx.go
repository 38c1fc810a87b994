package service

import (
	"io"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/cattrack/cattrack/internal/database"
)

// parseOFX reads bank and credit card statement transactions. A posted date
// keeps its calendar day in the offset the statement was written with.
func parseOFX(r io.Reader) ([]statementLine, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, err
	}
	var lists []*ofxgo.TransactionList
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			lists = append(lists, stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			lists = append(lists, stmt.BankTranList)
		}
	}

	var out []statementLine
	line := 0
	for _, list := range lists {
		if list == nil {
			continue
		}
		for _, tr := range list.Transactions {
			line++
			cents, err := ratToCents(&tr.TrnAmt.Rat)
			if err != nil {
				return nil, err
			}
			desc := strings.TrimSpace(string(tr.Memo))
			if desc == "" {
				desc = strings.TrimSpace(string(tr.Name))
			}
			out = append(out, statementLine{
				line:        line,
				when:        database.Today(tr.DtPosted.Time),
				amountCents: cents,
				description: desc,
			})
		}
	}
	return out, nil
}
