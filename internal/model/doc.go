// Package model defines the core data structures shared across the
// geoscan application: the audit request and report, the extracted
// fact groups, the score breakdown, and the recommendation list.
//
// This package has no dependencies on other internal packages to
// avoid circular imports. All other packages depend on model.
package model
