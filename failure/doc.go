// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package failure classifies the errors delivered to response handlers.

Use KindOf to tell a transport failure (the network call failed) from a
parse failure (a body arrived but was not the JSON the handler
expected), and CauseOf to find out why a transport failure happened.
*/
package failure
