// Package models contains GORM-specific persistence models that map to
// database tables. They are kept separate from the domain types so the
// domain layer stays free of ORM concerns; the stores convert between the
// two.
//
// Structure:
// - base.go: shared persistence fields (BaseModel)
// - storefront.go: storefront mirror tables (products, categories,
//   customers, orders, their metadata, options, sync logs) and AutoMigrate
package models
