// Package keys produces and inspects the key material carried in key
// envelopes.
//
// Only RSA has a generation path. A private key is rendered to DER in one of
// two sub-encodings (PKCS#1 or PKCS#8); the choice is always explicit in the
// API, with DefaultEncoding supplying the per-platform default the CLI uses.
//
// Sniff and DetectEncoding are diagnostics. Neither proves that a payload is
// a usable key.
package keys
