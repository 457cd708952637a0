package statements

// Monzo CSV exports carry columns including:
// Date, Time, Transaction Type, Name, Amount, Currency,
// Notes and #tags, Description, Money Out, Money In.
//
// Amount is already signed (negative = outgoing) and dates are DD/MM/YYYY.
func parseMonzo(content string) []Row {
	var rows []Row
	for _, rec := range readRecords(content) {
		date, ok := parseDate(rec.get("Date"), "02/01/2006")
		if !ok {
			continue
		}

		amount, ok := parseAmount(rec.get("Amount"))
		if !ok {
			continue
		}

		name := rec.get("Name")
		description := rec.get("Description")
		notes := rec.get("Notes and #tags")
		if name == "" && description == "" {
			continue
		}

		// Name is the primary merchant; build a useful description from
		// whatever fields the export filled in.
		display := description
		if display == "" {
			display = name
		}
		if notes != "" {
			display = display + " - " + notes
		}

		merchant := name
		if merchant == "" {
			merchant = description
		}

		rows = append(rows, Row{
			Date:         date,
			Description:  display,
			Amount:       amount,
			MerchantName: merchant,
		})
	}
	return rows
}
