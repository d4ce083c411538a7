// Package camt reads ISO 20022 camt.053-family bank-to-customer statements.
package camt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/stmtimport/internal/amount"
	"github.com/cleared-dev/stmtimport/internal/model"
	"github.com/cleared-dev/stmtimport/internal/xmltree"
)

// Parse extracts one transaction per entry, or one per transaction detail
// for batched entries. Entries are found at any depth. Transactions without
// a date or an amount are dropped.
func Parse(text string) ([]model.StructuredTransaction, error) {
	root, err := xmltree.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("parsing camt document: %w", err)
	}

	var out []model.StructuredTransaction
	for _, ntry := range root.FindAll("Ntry") {
		out = append(out, entryTransactions(ntry)...)
	}

	usable := out[:0]
	for _, t := range out {
		if t.Usable() {
			usable = append(usable, t)
		}
	}
	return usable, nil
}

func entryTransactions(ntry *xmltree.Node) []model.StructuredTransaction {
	debit := ntry.TextAt("CdtDbtInd") == "DBIT"
	date := entryDate(ntry.Child("ValDt"))
	if date == "" {
		date = entryDate(ntry.Child("BookgDt"))
	}

	var details []*xmltree.Node
	for _, d := range ntry.ChildrenNamed("NtryDtls") {
		details = append(details, d.ChildrenNamed("TxDtls")...)
	}

	entryRef := ntry.TextAt("AcctSvcrRef")

	if len(details) > 1 {
		txns := make([]model.StructuredTransaction, 0, len(details))
		for i, d := range details {
			var amt decimal.NullDecimal
			if a := d.Find("Amt"); a != nil {
				amt = signed(a.Text, debit)
			}
			payee := partyName(d, debit)
			txns = append(txns, model.StructuredTransaction{
				Date:          date,
				Amount:        amt,
				PayeeName:     payee,
				ImportedPayee: payee,
				Notes:         remittance(d),
				ImportedID:    detailRef(d, entryRef, i),
			})
		}
		return txns
	}

	var detail *xmltree.Node
	if len(details) == 1 {
		detail = details[0]
	}
	payee := partyName(detail, debit)
	notes := remittance(detail)

	extra := ntry.TextAt("AddtlNtryInf")
	switch {
	case payee == "" && extra != "":
		payee = extra
	case notes == "" && extra != "" && extra != payee:
		notes = extra
	}
	if notes == "" {
		notes = ntry.TextAt("NtryRef")
	}
	if payee != "" && notes != "" && strings.Contains(payee, notes) {
		notes = ""
	}

	return []model.StructuredTransaction{{
		Date:          date,
		Amount:        signed(ntry.TextAt("Amt"), debit),
		PayeeName:     payee,
		ImportedPayee: payee,
		Notes:         notes,
		ImportedID:    entryRef,
	}}
}

// detailRef is the detail's own servicer reference, or the entry's suffixed
// with the 1-based position so batched transactions stay distinct.
func detailRef(detail *xmltree.Node, entryRef string, i int) string {
	if ref := detail.Child("Refs").TextAt("AcctSvcrRef"); ref != "" {
		return ref
	}
	if entryRef == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d", entryRef, i+1)
}

// entryDate prefers the date part of DtTm over Dt.
func entryDate(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	if dt := n.TextAt("DtTm"); dt != "" {
		if len(dt) > 10 {
			return dt[:10]
		}
		return dt
	}
	return n.TextAt("Dt")
}

// partyName is the counterparty's name: the creditor of a debit, the debtor
// of a credit.
func partyName(detail *xmltree.Node, debit bool) string {
	parties := detail.Child("RltdPties")
	if parties == nil {
		return ""
	}
	role := "Dbtr"
	if debit {
		role = "Cdtr"
	}
	if nm := parties.Child(role).Find("Nm"); nm != nil {
		return nm.Text
	}
	return ""
}

func remittance(detail *xmltree.Node) string {
	var parts []string
	for _, u := range detail.Child("RmtInf").ChildrenNamed("Ustrd") {
		parts = append(parts, u.Text)
	}
	return strings.Join(parts, " ")
}

func signed(text string, debit bool) decimal.NullDecimal {
	v, ok := amount.ParseLoose(text)
	if !ok {
		return decimal.NullDecimal{}
	}
	if debit {
		v = v.Neg()
	}
	return decimal.NewNullDecimal(v)
}
