// Package receipttest provides an in-process stand-in for a receipt
// processing API, for use in tests.
//
// The fake serves the same three routes as the real service:
//
//	POST /receipts/process
//	GET  /receipts/{id}/points
//	GET  /receipts/{id}/breakdown
//
// Requests go through a fiber app, so tests need no network listener:
//
//	srv, err := receipttest.New(receipttest.Options{})
//	...
//	client, err := webclient.New(webclient.Config{BaseURL: receipttest.BaseURL},
//		webclient.Options{HTTPClient: srv.Transport()})
package receipttest
