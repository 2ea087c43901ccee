package connector

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of PrestaShop date fields
const DateLayout = "2006-01-02 15:04:05"

// ZeroDate is the value PrestaShop stores for unset dates
const ZeroDate = "0000-00-00 00:00:00"

// Filters are web-service query parameters such as "filter[id_customer]".
type Filters map[string]string

// Clone returns a copy of the filters
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Record is a remote record as delivered by the web service. Scalars are
// strings or JSON numbers, nested values are maps, associations may be a
// single map where a list is expected.
type Record map[string]any

// ID returns the record id
func (r Record) ID() int64 {
	return r.Int64("id")
}

// Has reports whether the key is present and non-empty
func (r Record) Has(key string) bool {
	return r.String(key) != ""
}

// String returns the value of key as a string. Values wrapped as
// {"value": ...} are unwrapped; language lists yield their first value.
func (r Record) String(key string) string {
	return stringify(r[key])
}

// Int64 returns the value of key parsed as an integer, 0 when absent or invalid
func (r Record) Int64(key string) int64 {
	s := strings.TrimSpace(r.String(key))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}

// Time parses a date field. Empty and zero dates report false.
func (r Record) Time(key string) (time.Time, bool) {
	s := r.String(key)
	if s == "" || s == ZeroDate || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Map returns a nested map, nil when absent
func (r Record) Map(key string) Record {
	return asRecord(r[key])
}

// Association returns the entries of an association normalized to a list.
// elem is the version specific element name (see Backend.VersionKey).
func (r Record) Association(name, elem string) []Record {
	assoc := asRecord(r["associations"])
	if assoc == nil {
		return nil
	}
	raw := assoc[name]
	if m := asRecord(raw); m != nil {
		if inner, ok := m[elem]; ok {
			raw = inner
		}
	}
	return toRecords(raw)
}

// AssociationIDs returns the ids of an association's entries in order
func (r Record) AssociationIDs(name, elem string) []int64 {
	entries := r.Association(name, elem)
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if id := e.ID(); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// ForLanguage returns a shallow copy where every multi-language field is
// replaced by its value in the given language.
func (r Record) ForLanguage(langID int64) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if value, ok := languageValue(v, langID); ok {
			out[k] = value
			continue
		}
		out[k] = v
	}
	return out
}

// LanguageValues returns the values of a multi-language field per language id
func (r Record) LanguageValues(key string) map[int64]string {
	entries, ok := languageEntries(r[key])
	if !ok {
		return nil
	}
	out := make(map[int64]string, len(entries))
	for _, e := range entries {
		out[languageID(e)] = stringify(e["value"])
	}
	return out
}

func asRecord(v any) Record {
	switch t := v.(type) {
	case Record:
		return t
	case map[string]any:
		return Record(t)
	}
	return nil
}

func toRecords(v any) []Record {
	switch t := v.(type) {
	case []any:
		out := make([]Record, 0, len(t))
		for _, item := range t {
			if m := asRecord(item); m != nil {
				out = append(out, m)
			}
		}
		return out
	case []Record:
		return t
	case []map[string]any:
		out := make([]Record, 0, len(t))
		for _, item := range t {
			out = append(out, Record(item))
		}
		return out
	}
	if m := asRecord(v); m != nil {
		return []Record{m}
	}
	return nil
}

// languageEntries recognizes both {"language": [...]} and [{"id":..,"value":..}]
func languageEntries(v any) ([]Record, bool) {
	if m := asRecord(v); m != nil {
		inner, ok := m["language"]
		if !ok {
			return nil, false
		}
		return toRecords(inner), true
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	entries := toRecords(list)
	for _, e := range entries {
		if _, hasValue := e["value"]; !hasValue {
			return nil, false
		}
		if languageID(e) == 0 {
			return nil, false
		}
	}
	return entries, len(entries) > 0
}

func languageID(entry Record) int64 {
	if attrs := asRecord(entry["attrs"]); attrs != nil {
		return attrs.Int64("id")
	}
	return entry.Int64("id")
}

func languageValue(v any, langID int64) (string, bool) {
	entries, ok := languageEntries(v)
	if !ok {
		return "", false
	}
	for _, e := range entries {
		if languageID(e) == langID {
			return stringify(e["value"]), true
		}
	}
	return "", true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		if t {
			return "1"
		}
		return "0"
	}
	if m := asRecord(v); m != nil {
		if value, ok := m["value"]; ok {
			return stringify(value)
		}
		if entries, ok := languageEntries(m); ok && len(entries) > 0 {
			return stringify(entries[0]["value"])
		}
		return ""
	}
	if entries, ok := languageEntries(v); ok && len(entries) > 0 {
		return stringify(entries[0]["value"])
	}
	return fmt.Sprint(v)
}
