// Package opus reads Ogg-framed Opus audio and transmits it in real time.
//
// PacketReader demultiplexes an Ogg stream into raw Opus packets. Pacer holds
// each packet back until its slot on a 20ms-per-frame timeline has arrived.
// Transmitter ties the two together, reopening its source whenever a stream
// ends, and hands each frame to a Sender.
package opus
