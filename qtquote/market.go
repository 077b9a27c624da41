package qtquote

// WithMarketPrefix returns symbol with its exchange prefix when symbol is a
// bare six-digit A-share code, and symbol unchanged otherwise.
//
//	600036 -> sh600036, 000001 -> sz000001, 830799 -> bj830799
func WithMarketPrefix(symbol string) string {
	if len(symbol) != 6 {
		return symbol
	}
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return symbol
		}
	}
	switch symbol[0] {
	case '5', '6', '9':
		return "sh" + symbol
	case '0', '1', '2', '3':
		return "sz" + symbol
	case '4', '8':
		return "bj" + symbol
	}
	return symbol
}
