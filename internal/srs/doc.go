// Package srs is a client for SimpleRadio-style voice relay servers.
//
// A session has two sockets. The control connection is TCP and carries
// newline-delimited JSON messages announcing the client and its radios. Voice
// travels over UDP as binary packets, each carrying one Opus frame together
// with the frequencies it is transmitted on.
package srs
