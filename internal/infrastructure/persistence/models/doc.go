// Package models holds the GORM persistence models of the connector and
// their conversions to and from domain entities. Slices and translation
// maps are stored as JSON columns.
package models
