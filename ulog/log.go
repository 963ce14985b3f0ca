// Package ulog is a thin layer over the standard log package that adds
// severity prefixes, assertions, and per-component debug output.
package ulog

import (
	"fmt"
	"io"
	"log"
)

// send all log output to w
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func Printf(format string, args ...any) {
	log.Printf(format, args...)
}

func Warnf(format string, args ...any) {
	if 0 == len(args) {
		log.Printf("WARN: " + format)
	} else {
		log.Printf("WARN: "+format, args...)
	}
}

func Errorf(format string, args ...any) {
	if 0 == len(args) {
		log.Printf("ERROR: " + format)
	} else {
		log.Printf("ERROR: "+format, args...)
	}
}

// cause a panic with the provided message
func Panicf(format string, args ...any) {
	if 0 == len(args) {
		panic(format)
	}
	panic(fmt.Sprintf(format, args...))
}

// if cond is false, panic with the provided message
//
// use for preconditions that only a programming error can violate
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		Panicf(format, args...)
	}
}
