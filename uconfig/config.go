// Package uconfig provides access to YAML configuration.
//
// A Section is a map of settings, typically loaded from a YAML file or
// string:
//
//	debug:        [ uchan ]
//	channels:
//	  - name:     records
//	    capacity: 16
//	  - name:     control
//
// Getters coerce values where it makes sense (a string "16" is a fine int),
// leave the destination untouched when the key is absent so that callers can
// preload defaults, and run any validators against the final value.
//
// The Chain API stops at the first error, which keeps builders short:
//
//	err := s.Chain().
//		GetString("name", &name, uconfig.StringNotBlank()).
//		GetInt("capacity", &capacity, uconfig.IntNonNeg()).
//		Error
package uconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/revolsys/csp/uerr"
	"github.com/revolsys/csp/ulog"

	"gopkg.in/yaml.v2"
)

// a config section
type Section struct {
	Context   string
	section   map[string]any
	trackKeys map[string]struct{} // keys accessed
}

// create a new Section from nil, /path/to/yaml/file, YAML string,
// YAML []byte, map[string]any, or map[string]string
func NewSection(it any) (rv *Section, err error) {
	m, err := toMap(it)
	if err != nil {
		return nil, uerr.Chainf(err, "creating config section")
	}
	rv = &Section{section: m}
	return
}

// coerce nil, string, []byte, or map into correct section map type
//
// a string naming an existing file is loaded from that file; any other
// string is parsed as YAML
func toMap(it any) (rv map[string]any, err error) {

	if nil == it {
		rv = make(map[string]any)
		return
	}
	switch val := it.(type) {
	case map[string]any:
		rv = val
	case []byte:
		err = yaml.Unmarshal(val, &rv)
	case string:
		if 0 == len(val) {
			rv = make(map[string]any)
		} else if _, statErr := os.Stat(val); nil == statErr {
			err = yamlLoad(val, &rv)
		} else {
			err = yaml.Unmarshal([]byte(val), &rv)
		}
	case map[any]any:
		rv = make(map[string]any, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("Non string key in map: %v", k)
			}
			rv[ks] = v
		}
	case map[string]string:
		rv = make(map[string]any, len(val))
		for k, v := range val {
			rv[k] = v
		}
	default:
		err = fmt.Errorf("value not a config map. is a %s", reflect.TypeOf(it))
	}
	if nil == err && nil == rv {
		rv = make(map[string]any)
	}
	return
}

func yamlLoad(file string, target any) (err error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(content, target)
}

func (this *Section) ctx(key string) string {
	if 0 == len(this.Context) {
		return key
	}
	return this.Context + "." + key
}

func (this *Section) track(key string) {
	if nil == this.trackKeys {
		this.trackKeys = make(map[string]struct{})
	}
	this.trackKeys[key] = struct{}{}
}

// keys in the section that are not allowed
func (this *Section) extraKeys(allowedKeys []string) (rv []string) {
	for k := range this.section {
		found := false
		for _, allowed := range allowedKeys {
			if allowed == k {
				found = true
				break
			}
		}
		if !found {
			rv = append(rv, k)
		}
	}
	return
}

// return error if any keys are in the section other than those already
// accessed or listed in allowedKeys
func (this *Section) OnlyKeys(allowedKeys ...string) (err error) {
	for k := range this.trackKeys {
		allowedKeys = append(allowedKeys, k)
	}
	extra := this.extraKeys(allowedKeys)
	if 0 != len(extra) {
		err = fmt.Errorf("section %s has extra keys: %v", this.Context, extra)
	}
	return
}

// warn if any keys are in the section other than those already accessed or
// listed in allowedKeys
func (this *Section) WarnExtraKeys(allowedKeys ...string) {
	for k := range this.trackKeys {
		allowedKeys = append(allowedKeys, k)
	}
	extra := this.extraKeys(allowedKeys)
	if 0 != len(extra) {
		ulog.Warnf("section %s has extra keys: %v", this.Context, extra)
	}
}

// if key is an array of sections, set result to it
func (this *Section) GetArrayIf(key string, result **Array) (err error) {
	this.track(key)
	it, ok := this.section[key]
	if !ok || nil == it {
		return
	}
	raw, ok := it.([]any)
	if !ok {
		return fmt.Errorf("parsing config: value of %s not an array",
			this.ctx(key))
	}
	rv := &Array{
		Context:  this.ctx(key),
		sections: make([]map[string]any, 0, len(raw)),
	}
	for i, entry := range raw {
		m, err := toMap(entry)
		if err != nil {
			return uerr.Chainf(err, "parsing config: %s.%d", this.ctx(key), i)
		}
		rv.sections = append(rv.sections, m)
	}
	*result = rv
	return
}

// change result to boolean value if found and convertible to bool
func (this *Section) GetBool(key string, result *bool) (err error) {
	this.track(key)
	it, found := this.section[key]
	if found {
		switch actual := it.(type) {
		case bool:
			*result = actual
		case string:
			*result, err = strconv.ParseBool(actual)
			if err != nil {
				err = uerr.Chainf(err, "parsing config: %s", this.ctx(key))
			}
		default:
			err = fmt.Errorf("parsing config: value of %s not convertable "+
				"to bool.  Is %s", this.ctx(key), reflect.TypeOf(it))
		}
	}
	return
}

func (this *Section) validInt(
	key string,
	v int64,
	validators []IntValidator,
) (err error) {
	for _, validF := range validators {
		if nil != validF {
			err = validF(v)
			if err != nil {
				return uerr.Chainf(err, "%s", this.ctx(key))
			}
		}
	}
	return
}

// if found, convert to int and set result, then validate
//
// when not found, result is left alone and its current value is validated
//
// handles strings with 0x (hex) or 0 (octal) prefixes
func (this *Section) GetInt(
	key string,
	result *int,
	validators ...IntValidator,
) (err error) {

	this.track(key)
	it, found := this.section[key]
	if !found {
		return this.validInt(key, int64(*result), validators)
	}
	var parsed int64
	switch raw := it.(type) {
	case int:
		parsed = int64(raw)
	case int64:
		parsed = raw
	case float64:
		if raw != float64(int64(raw)) {
			return fmt.Errorf("parsing config: %s not an int: %v",
				this.ctx(key), raw)
		}
		parsed = int64(raw)
	case string:
		parsed, err = strconv.ParseInt(strings.TrimSpace(raw), 0, 64)
		if err != nil {
			return uerr.Chainf(err, "parsing config: %s=%s", this.ctx(key), raw)
		}
	default:
		return fmt.Errorf("parsing config: value of %s not convertable "+
			"to int.  Is %s", this.ctx(key), reflect.TypeOf(it))
	}
	err = this.validInt(key, parsed, validators)
	if nil == err {
		*result = int(parsed)
	}
	return
}

func asString(it any) (rv string, ok bool) {
	switch typ := it.(type) {
	case string:
		rv, ok = typ, true
	case int, int64, float64, bool:
		rv, ok = fmt.Sprint(it), true
	}
	return
}

// if found, convert to string and set result, then validate
//
// when not found, result is left alone and its current value is validated
func (this *Section) GetString(
	key string,
	result *string,
	validators ...StringValidator,
) (err error) {

	this.track(key)
	val := *result
	if it, found := this.section[key]; found {
		var ok bool
		val, ok = asString(it)
		if !ok {
			return fmt.Errorf("Unable to convert value of %s to string: %#v",
				this.ctx(key), it)
		}
	}
	for _, validF := range validators {
		if nil != validF {
			err = validF(val)
			if err != nil {
				return uerr.Chainf(err, "%s", this.ctx(key))
			}
		}
	}
	*result = val
	return
}

// if found, set result to the list of strings.  a single string is
// treated as a list of one.
func (this *Section) GetStrings(key string, result *[]string) (err error) {
	this.track(key)
	it, found := this.section[key]
	if !found || nil == it {
		return
	}
	switch raw := it.(type) {
	case string:
		*result = []string{raw}
	case []any:
		rv := make([]string, 0, len(raw))
		for i, item := range raw {
			s, ok := asString(item)
			if !ok {
				return fmt.Errorf("parsing config: %s[%d] not a string: %#v",
					this.ctx(key), i, item)
			}
			rv = append(rv, s)
		}
		*result = rv
	default:
		err = fmt.Errorf("parsing config: value of %s not a string list. "+
			"Is %s", this.ctx(key), reflect.TypeOf(it))
	}
	return
}

// enable chaining of config calls
func (this *Section) Chain() *Chain {
	if nil == this {
		panic("chaining off of nil section")
	}
	return &Chain{Section: this}
}
