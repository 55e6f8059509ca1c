// Package domain defines the record shapes of the influencer ROI datasets.
//
// Types in this package are pure value objects with no behavior, no database
// dependencies, and no HTTP concerns. They are the shared language between
// the data source adapters, the session store, the ROI engine, and the API.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON/DB tags are allowed (they're metadata, not behavior)
//   - Empty text fields mean "missing"; there are no sentinel strings
package domain
