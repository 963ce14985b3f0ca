package uconfig

import "fmt"

// checks an int setting.  see Section.GetInt
type IntValidator func(int64) error

// checks a string setting.  see Section.GetString
type StringValidator func(string) error

// reject negative ints, such as a channel capacity below zero
func IntNonNeg() IntValidator {
	return func(v int64) (err error) {
		if 0 > v {
			err = fmt.Errorf("must not be negative, is %d", v)
		}
		return
	}
}

// reject the empty string
func StringNotBlank() StringValidator {
	return func(v string) (err error) {
		if 0 == len(v) {
			err = fmt.Errorf("must not be blank")
		}
		return
	}
}
