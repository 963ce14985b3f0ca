package uchan

import (
	"sort"
	"sync"

	"github.com/cornelk/hashmap"
)

// A directory of named channels, so independently built components can
// share a channel by name.
//
//	reg := uchan.NewRegistry[Record]()
//	ch := reg.GetOrCreate(uchan.Config{Name: "records", Capacity: 16})
//	...
//	ch, found := reg.Get("records")
//
// Lookups do not lock.  Registration is serialized, so GetOrCreate builds at
// most one channel per name.
type Registry[T any] struct {
	channels *hashmap.Map[string, *Channel[T]]
	putLock  sync.Mutex
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{channels: hashmap.New[string, *Channel[T]]()}
}

func (this *Registry[T]) Get(name string) (rv *Channel[T], found bool) {
	return this.channels.Get(name)
}

// get the channel named by c.Name, creating it from c if not there
func (this *Registry[T]) GetOrCreate(c Config) (rv *Channel[T]) {
	rv, found := this.channels.Get(c.Name)
	if found {
		return
	}
	this.putLock.Lock()
	defer this.putLock.Unlock()
	rv, found = this.channels.Get(c.Name)
	if !found {
		rv = NewChannelFrom[T](c)
		this.channels.Set(c.Name, rv)
	}
	return
}

// register ch as name, replacing any channel already there.  the replaced
// channel is not closed.  ch.Name is left as is
func (this *Registry[T]) Put(name string, ch *Channel[T]) {
	this.putLock.Lock()
	defer this.putLock.Unlock()
	this.channels.Set(name, ch)
}

// unregister and close the channel named name
func (this *Registry[T]) Remove(name string) (removed bool) {
	ch, found := this.channels.Get(name)
	if !found {
		return false
	}
	removed = this.channels.Del(name)
	if removed {
		ch.Close()
	}
	return
}

// registered names, sorted
func (this *Registry[T]) Names() (rv []string) {
	rv = make([]string, 0, this.channels.Len())
	this.channels.Range(func(name string, _ *Channel[T]) bool {
		rv = append(rv, name)
		return true
	})
	sort.Strings(rv)
	return
}

func (this *Registry[T]) Len() int { return this.channels.Len() }

// close and unregister every channel
func (this *Registry[T]) CloseAll() {
	for _, name := range this.Names() {
		this.Remove(name)
	}
}
