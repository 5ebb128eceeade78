// Package plan provides the YAML join plan: parsing, defaults and
// validation of the joins the CLI runs.
//
// # Schema Overview
//
//	version: "1"
//	packages:                  # Go packages holding declared record types
//	  - record-linker/store
//	defaults:
//	  key_categories: [number, trim-space]
//	  prevalidate: true
//	  format: json             # codec override for every side
//	joins:
//	  - name: orders-customers
//	    primary:
//	      url: file:///data/orders.json
//	      key: customerId
//	      type: "*store.Order" # optional, checked by "check"
//	    secondary:
//	      url: s3://bucket/customers.msgpack.zst
//	      key: id
//	      type: "*store.Customer"
//	    target: customer
//	    output: file:///out/orders.json
//	    key_categories: fold-case
//	    prevalidate: false
//
// Joins run in file order, so a join may read the output of an earlier
// one as its primary collection.
//
// # Precedence
//
// Join settings win over defaults; defaults win over the environment
// (LINKER_KEY_CATEGORIES). A side's format wins over defaults.format,
// which wins over the file extension.
package plan
