// Package shadowjson builds and parses device shadow documents inside
// caller-owned, fixed-size buffers.
//
// # Building
//
// A Document wraps a byte slice supplied by the caller. Builder calls append
// to it and never grow it: an append that does not fit returns
// status.BufferTruncated and the call leaves the document as it found it.
// The content stays NUL-terminated, so Len() < Cap() at all times.
//
//	buf := make([]byte, 256)
//	doc := shadowjson.NewDocument(buf)
//	temp := int32(42)
//	_ = doc.Init()
//	_ = doc.AddReported(shadowjson.Field("temp", &temp))
//	_ = doc.Finalize(tokens)
//	// {"state":{"reported":{"temp":42}},"clientToken":"dev-0"}
//
// String values are written verbatim without escaping; callers supply
// JSON-safe content.
//
// # Parsing
//
// A Parser owns a fixed-capacity token table that every Parse call
// repopulates. Parsing never reads past the input slice and fails with
// status.JSONParse on malformed input or when the table is full.
//
//	p := shadowjson.NewParser(shadowjson.DefaultTokenCapacity)
//	toks, err := p.Parse(payload)
//	span, err := toks.FindField(shadowjson.Field("temp", &temp))
package shadowjson
