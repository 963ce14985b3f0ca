package ulog

import (
	"log"
	"sync"
)

var (
	DebugEnabled = false // turn on all debug

	debugLock_        sync.RWMutex
	debugEnabledFor_  = make(map[string]bool) // turn on selective debug
	debugDisabledFor_ = make(map[string]bool) // turn off selective debug
)

// debug state for a component, computed once
//
//	dbg := ulog.NewDebug("uchan")
//	dbg.F("closing %s", name)
type Debug struct {
	Enabled   bool
	component string
	Prefix    string
}

func NewDebug(component string) *Debug {
	return (&Debug{}).Construct(component)
}

// construct in place
func (this *Debug) Construct(component string) *Debug {
	this.Enabled = IsDebugEnabledFor(component)
	this.component = component
	this.Prefix = "DEBUG: " + component + ": "
	return this
}

// output a debug message for the component if it is enabled for debug
func (this Debug) F(format string, args ...any) {
	if this.Enabled {
		if 0 == len(args) {
			log.Printf(this.Prefix + format)
		} else {
			log.Printf(this.Prefix+format, args...)
		}
	}
}

func SetDebugEnabledFor(component string) {
	debugLock_.Lock()
	if "all" == component {
		DebugEnabled = true
	} else {
		debugEnabledFor_[component] = true
		delete(debugDisabledFor_, component)
	}
	debugLock_.Unlock()
}

func SetDebugDisabledFor(component string) {
	debugLock_.Lock()
	if "all" == component {
		DebugEnabled = false
	} else {
		debugDisabledFor_[component] = true
		delete(debugEnabledFor_, component)
	}
	debugLock_.Unlock()
}

// output a debug message if DebugEnabled
func Debugf(format string, args ...any) {
	if IsDebugEnabled() {
		if 0 == len(args) {
			log.Printf("DEBUG: " + format)
		} else {
			log.Printf("DEBUG: "+format, args...)
		}
	}
}

// output a debug message if IsDebugEnabledFor(component)
func DebugfFor(component string, format string, args ...any) {
	if IsDebugEnabledFor(component) {
		if 0 == len(args) {
			log.Printf("DEBUG: %s: %s", component, format)
		} else {
			log.Printf("DEBUG: "+component+": "+format, args...)
		}
	}
}

// is debug enabled globally?
func IsDebugEnabled() bool {
	debugLock_.RLock()
	defer debugLock_.RUnlock()
	return DebugEnabled
}

// is debug enabled for component?
func IsDebugEnabledFor(component string) bool {
	debugLock_.RLock()
	defer debugLock_.RUnlock()
	return (DebugEnabled && !debugDisabledFor_[component]) ||
		debugEnabledFor_[component]
}
