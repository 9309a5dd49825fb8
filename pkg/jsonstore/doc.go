// Package jsonstore provides a thin client for jsonstore-style remote JSON
// key/value services. Each account is scoped by an opaque token embedded in
// the base URL; a key names a single JSON document below it, and the four
// operations (get, post, put, delete) map one-to-one onto HTTP requests
// against https://<service-host>/<token>/<key>. The service wraps every
// response in an {"ok": bool, "result": <value>} envelope, which the client
// validates and unwraps. All failure causes are collapsed into StoreError.
// The client holds no state beyond its immutable base URL and headers and is
// safe for concurrent use.
package jsonstore
