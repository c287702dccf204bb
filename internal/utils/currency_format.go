package utils

import "strconv"

// groupThousands inserts comma separators into a whole-number amount.
func groupThousands(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3+1)
	if negative {
		out = append(out, '-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
	}
	for i := lead; i < len(digits); i += 3 {
		if len(out) > 0 && out[len(out)-1] != '-' {
			out = append(out, ',')
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}

// FormatWon renders a whole KRW amount as e.g. "1,250,000원".
func FormatWon(amount int64) string {
	return groupThousands(amount) + "원"
}

// FormatAmount renders an amount in its currency: the won suffix for KRW,
// a trailing currency code otherwise.
func FormatAmount(amount int64, currency string) string {
	if currency == "" || currency == "KRW" {
		return FormatWon(amount)
	}
	return groupThousands(amount) + " " + currency
}
