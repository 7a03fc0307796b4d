// Package frame implements the byte-stuffed framing used on the INTEGRA
// serial and TCP links.
//
// A frame is
//
//	FE FE <command> <payload...> [crc-hi crc-lo] FE 0D
//
// where every literal FE after the start pair is sent as FE F0. The
// checksum pair is only present when the codec is built with checksums
// enabled.
//
// Decoding is a byte-driven state machine. A Decoder never blocks or
// retries on its own: ReadMessage pulls one byte at a time from a reader and
// the caller aborts it by failing the reader (closing the connection).
package frame
