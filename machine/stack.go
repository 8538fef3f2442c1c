package machine

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is the bounded return address stack. When full, a push evicts the
// oldest entry.
type Stack struct {
	Data    []Address
	Updated bool // Set on any change; cleared by the observer.
}

// Push adds a return address, evicting the oldest when full. Pushing an
// address outside instruction memory is a contract violation.
func (s *Stack) Push(value Address) {
	if int(value) >= ADDRESS_COUNT {
		panic(ErrViolation{Pc: value, Err: ErrStackAddress})
	}

	if s.Full() {
		copy(s.Data, s.Data[1:])
		s.Data = s.Data[:len(s.Data)-1]
	}

	s.Data = append(s.Data, value)
	s.Updated = true
}

// Pop removes and returns the most recent address; ok is false when empty.
func (s *Stack) Pop() (value Address, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
		s.Updated = true
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_LIMIT
}

func (s *Stack) Peek() (value Address, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
	s.Updated = true
}
