package logger

// Nop discards everything. Useful in tests.
type Nop struct{}

var _ Logger = Nop{}

func NewNop() Nop { return Nop{} }

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

func (n Nop) WithComponent(string) Logger { return n }
