// Package ofx imports brokerage OFX/QFX investment statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/tradedash/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX investment statement parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its trades and cash
// movements. Trades are keyed by the security's ticker when the file lists
// it, otherwise by its CUSIP or other unique id.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	tickers := securityTickers(resp)

	var transactions []model.Transaction
	var stmts int
	for _, msg := range resp.InvStmt {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt, ok := msg.(*ofxgo.InvStatementResponse)
		if !ok {
			continue
		}
		stmts++
		transactions = append(transactions, p.processInvestmentStatement(stmt, tickers)...)
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"investment_statements", stmts,
		"securities", len(tickers))

	return transactions, nil
}

// GetAccounts extracts unique brokerage account IDs from the OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var accounts []string
	for _, msg := range resp.InvStmt {
		stmt, ok := msg.(*ofxgo.InvStatementResponse)
		if !ok || stmt.InvAcctFrom.AcctID == "" {
			continue
		}
		id := string(stmt.InvAcctFrom.AcctID)
		if !seen[id] {
			seen[id] = true
			accounts = append(accounts, id)
		}
	}
	return accounts, nil
}

func (p *Parser) processInvestmentStatement(stmt *ofxgo.InvStatementResponse, tickers map[string]string) []model.Transaction {
	if stmt.InvTranList == nil {
		return nil
	}

	curDef := stmt.CurDef.String()
	source := string(stmt.InvAcctFrom.BrokerID)
	if source == "" {
		source = "ofx"
	}

	var transactions []model.Transaction
	for _, tran := range stmt.InvTranList.InvTransactions {
		var tx model.Transaction
		switch t := tran.(type) {
		case ofxgo.BuyStock:
			tx = convertBuy(t.InvBuy, curDef, source, tickers)
		case ofxgo.BuyMF:
			tx = convertBuy(t.InvBuy, curDef, source, tickers)
		case ofxgo.BuyOther:
			tx = convertBuy(t.InvBuy, curDef, source, tickers)
		case ofxgo.SellStock:
			tx = convertSell(t.InvSell, curDef, source, tickers)
		case ofxgo.SellMF:
			tx = convertSell(t.InvSell, curDef, source, tickers)
		case ofxgo.SellOther:
			tx = convertSell(t.InvSell, curDef, source, tickers)
		default:
			slog.Debug("Skipping unsupported investment transaction",
				"type", tran.TransactionType(),
				"account", stmt.InvAcctFrom.AcctID)
			continue
		}
		transactions = append(transactions, tx)
	}

	for _, bank := range stmt.InvTranList.BankTransactions {
		for _, tran := range bank.Transactions {
			transactions = append(transactions, convertCash(tran, curDef, source))
		}
	}

	return transactions
}

func convertBuy(buy ofxgo.InvBuy, curDef, source string, tickers map[string]string) model.Transaction {
	tx := convertTrade(buy.InvTran, buy.SecID, buy.Currency, curDef, source, tickers)
	tx.Type = model.TypeBuy
	tx.Amount = toDecimal(buy.Units).Abs()
	tx.HistoricalPrice = toDecimal(buy.UnitPrice)
	tx.Fee = toDecimal(buy.Commission).Add(toDecimal(buy.Fees))
	tx.Total = toDecimal(buy.Total).Abs()
	return tx
}

func convertSell(sell ofxgo.InvSell, curDef, source string, tickers map[string]string) model.Transaction {
	tx := convertTrade(sell.InvTran, sell.SecID, sell.Currency, curDef, source, tickers)
	tx.Type = model.TypeSell
	tx.Amount = toDecimal(sell.Units).Abs()
	tx.HistoricalPrice = toDecimal(sell.UnitPrice)
	tx.Fee = toDecimal(sell.Commission).Add(toDecimal(sell.Fees))
	tx.Total = toDecimal(sell.Total).Abs()
	return tx
}

func convertTrade(tran ofxgo.InvTran, sec ofxgo.SecurityID, cur ofxgo.Currency, curDef, source string, tickers map[string]string) model.Transaction {
	quote := currencyOr(cur, curDef)

	base := string(sec.UniqueID)
	if ticker, ok := tickers[base]; ok {
		base = ticker
	}

	return model.Transaction{
		ID:                 string(tran.FiTID),
		Date:               tran.DtTrade.Time,
		CurrencyPair:       model.CurrencyPair{Base: base, Quote: quote},
		Source:             source,
		AmountCurrency:     base,
		FeeCurrency:        quote,
		TotalCurrency:      quote,
		HistoricalCurrency: quote,
	}
}

// convertCash maps a cash movement inside the brokerage account to a deposit
// or withdrawal.
func convertCash(tran ofxgo.Transaction, curDef, source string) model.Transaction {
	cur := curDef
	if tran.Currency != nil {
		cur = currencyOr(*tran.Currency, curDef)
	}

	amount := toDecimal(tran.TrnAmt)
	txType := model.TypeDeposit
	if amount.IsNegative() {
		txType = model.TypeWithdrawal
	}

	return model.Transaction{
		ID:                 string(tran.FiTID),
		Date:               tran.DtPosted.Time,
		Type:               txType,
		CurrencyPair:       model.CurrencyPair{Base: cur, Quote: cur},
		Source:             source,
		Amount:             amount.Abs(),
		AmountCurrency:     cur,
		Fee:                decimal.Zero,
		FeeCurrency:        cur,
		Total:              amount.Abs(),
		TotalCurrency:      cur,
		HistoricalPrice:    decimal.NewFromInt(1),
		HistoricalCurrency: cur,
	}
}

// currencyOr returns the transaction currency when the statement overrides
// CURDEF for it. An absent CURRENCY aggregate decodes to the "XXX" unit.
func currencyOr(cur ofxgo.Currency, curDef string) string {
	if ok, _ := cur.CurSym.Valid(); ok {
		return cur.CurSym.String()
	}
	return curDef
}

// securityTickers maps security unique ids to tickers from the SECLIST.
func securityTickers(resp *ofxgo.Response) map[string]string {
	tickers := make(map[string]string)
	for _, msg := range resp.SecList {
		list, ok := msg.(*ofxgo.SecurityList)
		if !ok {
			continue
		}
		for _, sec := range list.Securities {
			var info ofxgo.SecInfo
			switch s := sec.(type) {
			case ofxgo.StockInfo:
				info = s.SecInfo
			case ofxgo.MFInfo:
				info = s.SecInfo
			case ofxgo.OtherInfo:
				info = s.SecInfo
			default:
				continue
			}
			if info.Ticker != "" {
				tickers[string(info.SecID.UniqueID)] = strings.ToUpper(string(info.Ticker))
			}
		}
	}
	return tickers
}

func toDecimal(a ofxgo.Amount) decimal.Decimal {
	d, err := decimal.NewFromString(a.FloatString(8))
	if err != nil {
		return decimal.Zero
	}
	return d
}
