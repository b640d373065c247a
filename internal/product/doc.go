// Package product persists scanned products: barcode, descriptive fields,
// price, and an optional image. Discounts are stored as a JSON document in
// the discounts column.
//
// All operations are gated: reads require the read-products permission
// level, writes require write-products.
package product
