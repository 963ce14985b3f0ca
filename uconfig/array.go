package uconfig

import "strconv"

// an array of config sections
type Array struct {
	Context  string
	sections []map[string]any
}

func (this *Array) at(i int) *Section {
	return &Section{
		Context: this.Context + "." + strconv.Itoa(i),
		section: this.sections[i],
	}
}

// iterate through the sections, aborting if visitor returns an error
func (this *Array) Each(visitor func(int, *Section) error) (err error) {
	if nil != this {
		for i := range this.sections {
			err = visitor(i, this.at(i))
			if err != nil {
				break
			}
		}
	}
	return
}
