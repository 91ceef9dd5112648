package storefront

type MutationState int

const (
	MutationPending MutationState = iota
	MutationSettled
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationSettled:
		return "settled"
	case MutationFailed:
		return "failed"
	}
	return "unknown"
}

// Mutation is the outcome of a create/update/delete call. Local state is
// only changed once a mutation is Settled.
type Mutation[T any] struct {
	State       MutationState
	Value       T
	FieldErrors FieldErrors
	Err         error
}

func settled[T any](v T) Mutation[T] {
	return Mutation[T]{State: MutationSettled, Value: v}
}

func failed[T any](err error) Mutation[T] {
	return Mutation[T]{State: MutationFailed, Err: err}
}

func invalid[T any](fe FieldErrors) Mutation[T] {
	return Mutation[T]{State: MutationFailed, FieldErrors: fe}
}

// Invalid reports whether the mutation was blocked by validation.
func (m Mutation[T]) Invalid() bool {
	return len(m.FieldErrors) > 0
}

// listGuard decides whether a list result may replace the local list. A
// result is kept only if no newer list was requested and no mutation settled
// while it was in flight. Callers hold their own lock.
type listGuard struct {
	requests  uint64
	mutations uint64
}

type listTicket struct {
	request  uint64
	mutation uint64
}

func (g *listGuard) begin() listTicket {
	g.requests++
	return listTicket{request: g.requests, mutation: g.mutations}
}

func (g *listGuard) current(t listTicket) bool {
	return t.request == g.requests && t.mutation == g.mutations
}

func (g *listGuard) mutated() {
	g.mutations++
}
