// Package connector contains the Connector bounded context.
// This context keeps local ERP records in sync with one or more remote
// PrestaShop shops.
//
// Key concepts:
//   - Backend: configuration of one remote shop (version, company, tax and matching policy)
//   - Binding: link between a remote id and a local record for one backend and entity type
//   - Record: a remote record exactly as the web service delivered it
//   - Job: deferred unit of work, deduplicated by identity key
//
// Design Pattern: Ports & Adapters
//   - Ports (WebService, JobQueue, repositories, ImageStore) are defined here
//   - Adapters live in the infrastructure layer
//   - Field mapping rules live in the mapping subpackage
package connector
