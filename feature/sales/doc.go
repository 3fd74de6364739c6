// Package sales implements the sales reconciliation feature.
//
// It reconciles third-party ticket-sales CSV exports deposited in object
// storage against the ticketing API and the relational store. One run fetches
// the newest export, groups its rows by event, classifies each event as new
// or already tracked, and inserts or updates sales rows accordingly while
// keeping ticket-type inventory in sync with the API.
//
// # Sub-packages
//
//   - models: GORM models and result payload types
//   - parse: locale-tolerant scalar coercion (currency, dates, payment methods)
//   - export: newest-CSV discovery and decoding
//   - ticketing: the authenticated ticket-type API client
//   - store: the persistence gateway over GORM
//   - sync: the reconciliation engine
//
// The feature exposes GET /health and GET /latest-report through the loader.
package sales
