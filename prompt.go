package lottery

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TicketPrompter is the input capability the registry uses to obtain the
// user's ticket count when none is supplied explicitly
type TicketPrompter interface {
	// PromptTicketCount asks for a ticket count within [min, max] inclusive
	PromptTicketCount(min, max int) (int, error)
}

// ParseTicketCount parses input as an integer and checks it against
// [min, max] inclusive
func ParseTicketCount(input string, min, max int) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrInvalidParameters.WithDetails(fmt.Sprintf("%q is not a whole number", input))
	}

	if count < min || count > max {
		return 0, ErrTicketCountOutOfRange.WithDetails(
			fmt.Sprintf("requested %d, allowed [%d, %d]", count, min, max))
	}

	return count, nil
}

// ConsolePrompter reads the ticket count from an input stream, re-asking on
// invalid input up to a fixed number of attempts
type ConsolePrompter struct {
	reader   *bufio.Reader
	writer   io.Writer
	attempts int
}

// NewConsolePrompter creates a prompter over the given streams
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		reader:   bufio.NewReader(in),
		writer:   out,
		attempts: DefaultPromptAttempts,
	}
}

// PromptTicketCount asks for a ticket count within [min, max] inclusive,
// retrying on malformed or out-of-range input
func (p *ConsolePrompter) PromptTicketCount(min, max int) (int, error) {
	for attempt := 0; attempt < p.attempts; attempt++ {
		fmt.Fprintf(p.writer, "How many tickets would you like to buy? [%d-%d]: ", min, max)

		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			return 0, ErrPromptFailed.WithCause(err)
		}

		count, parseErr := ParseTicketCount(line, min, max)
		if parseErr == nil {
			return count, nil
		}

		fmt.Fprintf(p.writer, "Invalid input: %v\n", parseErr)

		// EOF with a trailing partial line: nothing more to read
		if err != nil {
			return 0, ErrPromptFailed.WithCause(err)
		}
	}

	return 0, ErrPromptFailed.WithDetails(fmt.Sprintf("no valid ticket count after %d attempts", p.attempts))
}
