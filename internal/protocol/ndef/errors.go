package ndef

import "errors"

var (
	ErrEmptyMessage    = errors.New("ndef: message has no records")
	ErrTruncated       = errors.New("ndef: truncated data")
	ErrChunked         = errors.New("ndef: chunked records are not supported")
	ErrMissingBegin    = errors.New("ndef: first record missing message-begin flag")
	ErrMissingEnd      = errors.New("ndef: last record missing message-end flag")
	ErrTrailingData    = errors.New("ndef: data after message-end record")
	ErrTypeTooLong     = errors.New("ndef: record type longer than 255 bytes")
	ErrIDTooLong       = errors.New("ndef: record id longer than 255 bytes")
	ErrNotText         = errors.New("ndef: record is not a text record")
	ErrNotURI          = errors.New("ndef: record is not a uri record")
	ErrInvalidText     = errors.New("ndef: invalid text payload")
	ErrInvalidURI      = errors.New("ndef: invalid uri payload")
	ErrLanguageTooLong = errors.New("ndef: language code longer than 63 bytes")
)
