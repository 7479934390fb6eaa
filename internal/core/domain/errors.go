package domain

import "errors"

var (
	// ErrNotFound means no stage of resolution produced a sellable batch
	ErrNotFound = errors.New("no matching product found")
	// ErrNoActiveBatch means the product was identified but nothing is sellable
	ErrNoActiveBatch = errors.New("product has no active batch in this shop")
	// ErrOutOfStock means the batch was empty or a concurrent sale took the last unit
	ErrOutOfStock = errors.New("batch is out of stock")
	// ErrBatchNotFound means a batch id did not resolve
	ErrBatchNotFound = errors.New("batch not found")
	// ErrMalformedScan means a scan produced neither a code nor a name
	ErrMalformedScan = errors.New("scan produced no code or name")
	// ErrListingUnavailable means neither listing path could fetch batches
	ErrListingUnavailable = errors.New("listing unavailable")
)
