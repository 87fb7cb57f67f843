// Package convert runs conversions between dialects.
//
// A conversion moves through Decoding, Transforming and Encoding and ends
// in Done or Failed. Decoding never fails. Transforming strips anything
// executable and applies requested filters. Encoding fails only when the
// target dialect is missing a required option or the encoder itself
// breaks; nothing partial is returned in that case.
//
// Warnings are reported in the order they were produced: decoder,
// transform, encoder, then the loss assessment.
package convert
