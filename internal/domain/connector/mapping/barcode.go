package mapping

import (
	"strings"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
)

// IsValidEAN13 checks length, digits and the EAN-13 check digit.
func IsValidEAN13(code string) bool {
	if len(code) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 13; i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return false
		}
		if i == 12 {
			break
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == int(code[12]-'0')
}

// pickBarcode returns the first non-empty value. A "0" there means no
// barcode and does not fall through to the next value.
func pickBarcode(values ...string) string {
	for _, v := range values {
		if v == "" {
			continue
		}
		if v == "0" {
			return ""
		}
		return v
	}
	return ""
}

// MatchingCode returns the record value local products are matched on
func MatchingCode(strategy connector.MatchingStrategy, record connector.Record) string {
	if strategy == connector.MatchingByBarcode {
		return pickBarcode(record.String("barcode"), record.String("ean13"))
	}
	return strings.TrimSpace(record.String("reference"))
}
