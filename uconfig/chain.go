package uconfig

// enable chaining of config calls
//
// once Error is set, later calls do nothing
type Chain struct {
	Section *Section
	Error   error
}

// get the array specified by key if it exists and
// iterate through the contained sections
func (this *Chain) EachSectionIf(
	key string,
	visitor func(int, *Section) error,
) *Chain {
	if nil == this.Error {
		var arr *Array
		this.Error = this.Section.GetArrayIf(key, &arr)
		if nil == this.Error && nil != arr {
			this.Error = arr.Each(visitor)
		}
	}
	return this
}

func (this *Chain) GetBool(key string, value *bool) *Chain {
	if nil == this.Error {
		this.Error = this.Section.GetBool(key, value)
	}
	return this
}

func (this *Chain) GetInt(
	key string,
	value *int,
	validators ...IntValidator,
) *Chain {
	if nil == this.Error {
		this.Error = this.Section.GetInt(key, value, validators...)
	}
	return this
}

func (this *Chain) GetString(
	key string,
	value *string,
	validators ...StringValidator,
) *Chain {
	if nil == this.Error {
		this.Error = this.Section.GetString(key, value, validators...)
	}
	return this
}

func (this *Chain) GetStrings(key string, value *[]string) *Chain {
	if nil == this.Error {
		this.Error = this.Section.GetStrings(key, value)
	}
	return this
}

func (this *Chain) OnlyKeys(allowedKeys ...string) *Chain {
	if nil == this.Error {
		this.Error = this.Section.OnlyKeys(allowedKeys...)
	}
	return this
}

func (this *Chain) WarnExtraKeys(allowedKeys ...string) *Chain {
	if nil == this.Error {
		this.Section.WarnExtraKeys(allowedKeys...)
	}
	return this
}

// run the specified checking function as part of the chain
func (this *Chain) Check(fn func() (err error)) *Chain {
	if nil == this.Error {
		this.Error = fn()
	}
	return this
}

// run the specified function as part of the chain if no preceding error
func (this *Chain) Then(fn func()) *Chain {
	if nil == this.Error {
		fn()
	}
	return this
}
