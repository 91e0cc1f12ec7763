// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Request (describes one
asynchronous HTTP request) and Execution (describes the state of a
Request as it is executed and its outcome delivered).

The first core type is Request, an immutable descriptor built by the
dispatcher when Get or Post is called:

	r := client.Get("https://example.com/api", query.Values{{"id", "7"}}, true, h)
	if r == nil {
		// Empty URL: nothing was submitted.
	}
	log.Printf("submitted %s as %s", r, r.ID())

The second core type is Execution, which tracks a Request through its
lifecycle states:

	Created → Running → DeliveredSuccess | DeliveredFailure → Done

Execution is the input type for callbacks invoked during the request
lifecycle: timeout policies and event handlers. You will typically not
allocate Execution instances yourself, but will work with the ones
handed out by the dispatcher.
*/
package request
