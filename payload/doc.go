// Copyright 2021 The asynchttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package payload parses response bodies into the structured JSON values
delivered to object and array response handlers.

Parsing is backed by github.com/tidwall/gjson, so fields can be read
with gjson paths without declaring Go types:

	o, err := payload.ParseObject(`{"user":{"name":"ada","tags":["x"]}}`)
	...
	name := o.Get("user.name").String()
	first := o.Get("user.tags.0").String()

Payloads may additionally be checked against a JSON Schema compiled with
CompileSchema.
*/
package payload
