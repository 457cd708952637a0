package statements

// Starling CSV exports carry columns:
// Date, Counter Party, Reference, Type, Amount (GBP), Balance (GBP),
// Spending Category.
//
// Amount is already signed and dates are DD/MM/YYYY. The amount and balance
// headers embed the account currency, so they are matched by prefix.
func parseStarling(content string) []Row {
	var rows []Row
	for _, rec := range readRecords(content) {
		date, ok := parseDate(rec.get("Date"), "02/01/2006")
		if !ok {
			continue
		}

		amountStr, _ := rec.getPrefixed("Amount")
		amount, ok := parseAmount(amountStr)
		if !ok {
			continue
		}

		counterParty := rec.get("Counter Party")
		reference := rec.get("Reference")

		description := reference
		if description == "" {
			description = counterParty
		}
		merchant := counterParty
		if merchant == "" {
			merchant = reference
		}
		if description == "" && merchant == "" {
			continue
		}

		row := Row{
			Date:         date,
			Description:  description,
			Amount:       amount,
			MerchantName: merchant,
		}
		if balanceStr, found := rec.getPrefixed("Balance"); found {
			if balance, ok := parseAmount(balanceStr); ok {
				row.BalanceAfter = &balance
			}
		}
		rows = append(rows, row)
	}
	return rows
}
