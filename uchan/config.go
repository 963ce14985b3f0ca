package uchan

import (
	"fmt"

	"github.com/revolsys/csp/uconfig"
	"github.com/revolsys/csp/ulog"
)

// how to build a channel
//
//	name:      records
//	capacity:  16        # omit (or 0) for rendezvous
//	unbounded: false     # true: writers never wait
type Config struct {
	Name      string
	Capacity  int
	Unbounded bool
}

// build Config from a config section
func ConfigFrom(s *uconfig.Section) (rv Config, err error) {
	err = s.Chain().
		GetString("name", &rv.Name, uconfig.StringNotBlank()).
		GetInt("capacity", &rv.Capacity, uconfig.IntNonNeg()).
		GetBool("unbounded", &rv.Unbounded).
		OnlyKeys("name", "capacity", "unbounded").
		Check(func() (err error) {
			if rv.Unbounded && 0 != rv.Capacity {
				err = fmt.Errorf("channel %s: capacity (%d) set on unbounded "+
					"channel", rv.Name, rv.Capacity)
			}
			return
		}).
		Error
	return
}

// the DataStore described by c
func NewStore[T any](c Config) DataStore[T] {
	if c.Unbounded {
		return NewUnboundedBuffer[T]()
	} else if 0 == c.Capacity {
		return NewZeroBuffer[T]()
	}
	return NewBuffer[T](c.Capacity)
}

// the Channel described by c
func NewChannelFrom[T any](c Config) (rv *Channel[T]) {
	rv = NewChannel[T](NewStore[T](c))
	rv.Name = c.Name
	return
}

// build a Registry from a config section
//
//	debug:    [ uchan ]         # components to enable ulog debug output for
//	channels:
//	  - name:      records
//	    capacity:  16
//	  - name:      control
//	  - name:      log
//	    unbounded: true
func LoadRegistry[T any](s *uconfig.Section) (rv *Registry[T], err error) {
	var debug []string
	var dbg ulog.Debug
	reg := NewRegistry[T]()
	err = s.Chain().
		GetStrings("debug", &debug).
		Then(func() {
			for _, component := range debug {
				ulog.SetDebugEnabledFor(component)
			}
			dbg.Construct(DebugComponent)
		}).
		EachSectionIf("channels", func(i int, cs *uconfig.Section) (err error) {
			c, err := ConfigFrom(cs)
			if nil != err {
				return
			}
			if _, found := reg.Get(c.Name); found {
				return fmt.Errorf("channel %s: defined more than once", c.Name)
			}
			reg.Put(c.Name, NewChannelFrom[T](c))
			dbg.F("configured channel %s: %+v", c.Name, c)
			return
		}).
		WarnExtraKeys("debug", "channels").
		Error
	if nil == err {
		rv = reg
	}
	return
}
