package lottery

// TicketPool is the shared ordered collection of all currently un-awarded
// ticket numbers. The registry fills it during ticket generation; afterwards
// the engine holds exclusive mutation rights and removes each ticket as it
// is drawn, so a ticket can never win more than one tier.
type TicketPool struct {
	numbers []int
}

// NewTicketPool creates an empty ticket pool
func NewTicketPool() *TicketPool {
	return &TicketPool{
		numbers: make([]int, 0),
	}
}

// Len returns the number of tickets still in circulation
func (tp *TicketPool) Len() int {
	return len(tp.numbers)
}

// IsEmpty reports whether every ticket has been drawn
func (tp *TicketPool) IsEmpty() bool {
	return len(tp.numbers) == 0
}

// Append adds a ticket number to the pool
func (tp *TicketPool) Append(number int) {
	tp.numbers = append(tp.numbers, number)
}

// At returns the ticket number at index i
func (tp *TicketPool) At(i int) int {
	return tp.numbers[i]
}

// Contains reports whether number is still in circulation
func (tp *TicketPool) Contains(number int) bool {
	for _, n := range tp.numbers {
		if n == number {
			return true
		}
	}
	return false
}

// RemoveAt retires the ticket at index i from circulation and returns it
func (tp *TicketPool) RemoveAt(i int) int {
	number := tp.numbers[i]
	tp.numbers = append(tp.numbers[:i], tp.numbers[i+1:]...)
	return number
}

// Numbers returns a copy of the tickets currently in circulation
func (tp *TicketPool) Numbers() []int {
	out := make([]int, len(tp.numbers))
	copy(out, tp.numbers)
	return out
}
