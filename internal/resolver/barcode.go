package resolver

import "strings"

// barcodeVariants returns the barcode followed by its UPC-A/EAN-13
// equivalents: a 12-digit code zero-padded to 13, and a 13-digit code with a
// leading zero stripped back to 12. The original always comes first.
func barcodeVariants(barcode string) []string {
	variants := []string{barcode}

	switch {
	case len(barcode) == 12 && isDigits(barcode):
		variants = append(variants, "0"+barcode)
	case len(barcode) == 13 && isDigits(barcode) && strings.HasPrefix(barcode, "0"):
		variants = append(variants, barcode[1:])
	}

	return variants
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
