// Package http provides a fluent HTTP client with configurable headers,
// timeout, a runtime-selectable JSON backend and optional request logging.
//
// The package provides:
//   - A Client whose mutators return the same client for chaining
//   - Blocking verb methods (Get, Post, Put, Delete) and async variants
//     returning a Future
//   - A Serializer dispatching to encoding/json or go-json-experiment/json
//   - A Response with a lazily read, cached body and typed decoding
//
// Basic Usage:
//
//	client := http.NewClient().
//	    AddHeaders(http.BearerAuthorization(token), http.Accept("application/json")).
//	    SetTimeout(30 * time.Second)
//
//	resp, err := client.Post("https://api.example.com/users", User{Name: "a"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if resp.StatusCode() == 201 {
//	    created, err := http.Deserialize[User](resp)
//	    ...
//	}
//
// Serializer Backends:
//
// KindStandard (the default) uses encoding/json. KindV2 uses
// github.com/go-json-experiment/json and writes every non-ASCII rune outside
// the allowed unicode ranges (Basic Latin and Cyrillic by default) as a \u
// escape. Settings for a backend can only be changed while it is selected;
// a settings call for the inactive backend is ignored and reported to the
// serializer's warning sink:
//
//	s := http.NewSerializer().SetKind(http.KindV2)
//	s.SetV2Settings(http.V2Settings{Deterministic: true})
//	client.SetSerializer(s)
//
// Logging:
//
// With logging enabled every request writes a START line before dispatch and
// a FINISH line after the response (or the failure) to the client's Sink.
// Logging a response reads its body eagerly; the body stays cached on the
// Response. Use NewZapSink to route the lines through zap.
//
// Errors:
//
// Transport failures are returned exactly as net/http reports them. Body
// encoding failures are *SerializationError and the request is not sent.
// Decoding failures are *DeserializationError. A non-2xx status is never an
// error.
//
// Thread Safety:
//
// Client and Serializer are safe for concurrent use. Each request works on a
// snapshot of the client configuration taken when the call starts.
package http
