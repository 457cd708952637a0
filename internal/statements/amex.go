package statements

// American Express exports store charges as positive amounts, the opposite of
// the system-wide convention, so the sign is flipped at parse time: a positive
// charge becomes a negative (outgoing) amount and payments/credits become
// positive. Dates are tried as DD/MM/YYYY (UK), then MM/DD/YYYY, then ISO.
func parseAmex(content string) []Row {
	var rows []Row
	for _, rec := range readRecords(content) {
		date, ok := parseDate(rec.get("Date"), "02/01/2006", "01/02/2006", "2006-01-02")
		if !ok {
			continue
		}

		amount, ok := parseAmount(rec.get("Amount", "amount"))
		if !ok {
			continue
		}

		description := rec.get("Description", "description")

		rows = append(rows, Row{
			Date:         date,
			Description:  description,
			Amount:       amount.Neg(),
			MerchantName: description,
		})
	}
	return rows
}
