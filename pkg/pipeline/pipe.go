package pipeline

import "context"

// Pipe is a single unit of work over a payload.
type Pipe interface {
	// Name is the name of the concrete pipe, for example "PostsSplitter".
	Name() string
	Run(ctx context.Context) error
}

// Factory builds a pipe bound to payload.
type Factory func(payload *Payload, nickname string) Pipe

// Definition pairs a nickname with the factory of its pipe.
type Definition struct {
	Nickname string
	New      Factory
}

// Def is a shorthand for Definition{Nickname: nickname, New: factory}.
func Def(nickname string, factory Factory) Definition {
	return Definition{Nickname: nickname, New: factory}
}

// Base holds what every pipe is built with. Concrete pipes embed it.
type Base struct {
	Payload  *Payload
	Nickname string
}
