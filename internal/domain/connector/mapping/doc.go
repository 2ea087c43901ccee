// Package mapping translates PrestaShop records into local field values and
// local records into PrestaShop payloads.
//
// A Mapper is a fixed list of rules evaluated in declaration order. Each
// rule returns zero or more values; a later rule overrides an earlier one on
// the same key. Rules flagged OnlyOnCreate are skipped when updating an
// existing record. Rules flagged Translatable are also evaluated for every
// secondary shop language.
package mapping
