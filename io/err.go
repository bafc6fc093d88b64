package io

import (
	"errors"

	"github.com/ezrec/vcpu/translate"
)

var f = translate.From
var to = translate.To

var (
	// Tracer errors
	ErrTraceFull   = errors.New(f("trace full"))
	ErrTapeMissing = errors.New(f("tape output missing"))
)
