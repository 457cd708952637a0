package statements

import "strings"

// HSBC UK statement exports come in two layouts:
//
//	Date, Type, Description, Paid Out, Paid In, Balance
//	Date, Description, Amount, Balance
//
// Paid Out values are unsigned charges and get negated; the bare Amount
// layout is pre-signed. Descriptions may span multiple lines inside quoted
// fields and are collapsed to a single line.
func parseHSBC(content string) []Row {
	records := readRecords(content)

	hasPaidColumns := false
	if len(records) > 0 {
		for name := range records[0] {
			if strings.EqualFold(name, "Paid Out") {
				hasPaidColumns = true
				break
			}
		}
	}

	var rows []Row
	for _, rec := range records {
		date, ok := parseDate(rec.get("Date"), "02/01/2006")
		if !ok {
			continue
		}

		description := collapseWhitespace(rec.get("Description", "Memo"))
		if description == "" {
			continue
		}

		var row Row
		row.Date = date
		row.Description = description
		row.MerchantName = description

		if hasPaidColumns {
			if paidOut, ok := parseAmount(rec.get("Paid Out", "Paid out")); ok {
				row.Amount = paidOut.Neg()
			} else if paidIn, ok := parseAmount(rec.get("Paid In", "Paid in")); ok {
				row.Amount = paidIn
			} else {
				continue
			}
		} else {
			amount, ok := parseAmount(rec.get("Amount"))
			if !ok {
				continue
			}
			row.Amount = amount
		}

		if balance, ok := parseAmount(rec.get("Balance")); ok {
			row.BalanceAfter = &balance
		}

		rows = append(rows, row)
	}
	return rows
}
