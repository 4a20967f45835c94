package xpdo

/*
Short for "builder". Accumulates SQL text and the named binds referenced by
that text. Used internally by `Query`, `Join` and `Like` when rendering.
*/
type bui struct {
	text  []byte
	binds Binds
}

func makeBui(textCap int) bui {
	return bui{text: make([]byte, 0, textCap), binds: Binds{}}
}

// Returns inner text as a string, performing a free cast.
func (self bui) String() string { return bytesToMutableString(self.text) }

// Appends the provided string, delimiting it from the previous text with a
// space if necessary.
func (self *bui) str(val string) { self.text = appendMaybeSpaced(self.text, val) }

/*
Appends a named parameter, space-separated from previous text if necessary,
and records the corresponding value.
*/
func (self *bui) bind(name string, val any) {
	self.str(name)
	if self.binds == nil {
		self.binds = Binds{}
	}
	self.binds[name] = val
}

// Appends "<col> <op> :name" and records the value.
func (self *bui) cond(col, op, name string, val any) {
	self.str(col)
	self.str(op)
	self.bind(name, val)
}

// Appends `sep` unless this is the first item of a sequence.
func (self *bui) sep(ind int, sep string) {
	if ind > 0 {
		self.str(sep)
	}
}

func (self *bui) mergeBinds(src Binds) {
	if len(src) == 0 {
		return
	}
	if self.binds == nil {
		self.binds = Binds{}
	}
	self.binds.Merge(src)
}
