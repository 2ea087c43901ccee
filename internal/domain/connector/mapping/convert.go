package mapping

import (
	"strconv"
	"strings"

	"github.com/binovo/connector-prestashop/internal/domain/connector"
	"github.com/shopspring/decimal"
)

// NoName replaces empty product names
const NoName = "noname"

// ParseBool parses a shop boolean. Shops send booleans as integer strings,
// so "0" is false and anything unparsable is false.
func ParseBool(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return n != 0
}

// FormatBool renders a boolean the way the shop expects it
func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseDecimal parses a shop number, empty or invalid values are zero
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// normalizeDate replaces the shop zero date by the current time
func normalizeDate(env *Env, value string) any {
	if value == connector.ZeroDate {
		return env.now()
	}
	return value
}

// hasCombinations reports whether a product record lists combinations
func hasCombinations(env *Env, record connector.Record) bool {
	return len(combinationIDs(env, record)) > 0
}

func combinationIDs(env *Env, record connector.Record) []int64 {
	return record.AssociationIDs("combinations", env.Backend.VersionKey("combinations"))
}
