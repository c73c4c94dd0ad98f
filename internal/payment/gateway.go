package payment

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrCancelled means the user abandoned the provider's payment UI.
var ErrCancelled = errors.New("payment cancelled")

type Prefill struct {
	Email   string
	Contact string
	Name    string
}

// Options mirrors the payment provider's checkout options. Amount is in the
// provider's minor unit (paise).
type Options struct {
	Description string
	Currency    string
	Key         string
	Amount      int64
	Name        string
	Prefill     Prefill
}

// Gateway wraps the opaque external payment UI. Open blocks until the
// provider resolves with a payment identifier or the user cancels or the
// gateway fails.
type Gateway interface {
	Open(ctx context.Context, opts Options) (paymentID string, err error)
}

// ConsoleGateway drives the provider flow through the terminal: the
// operator completes the payment in the provider's own UI and enters the
// resulting payment id. An empty entry is a cancellation.
type ConsoleGateway struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsoleGateway(in io.Reader, out io.Writer) *ConsoleGateway {
	return &ConsoleGateway{in: bufio.NewReader(in), out: out}
}

func (g *ConsoleGateway) Open(ctx context.Context, opts Options) (string, error) {
	fmt.Fprintf(g.out, "%s — %s %d.%02d (%s)\n",
		opts.Name, opts.Currency, opts.Amount/100, opts.Amount%100, opts.Description)
	fmt.Fprintf(g.out, "Complete the payment with key %s, then enter the payment id (empty cancels): ", opts.Key)

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := g.in.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil && res.line == "" {
			return "", ErrCancelled
		}
		paymentID := strings.TrimSpace(res.line)
		if paymentID == "" {
			return "", ErrCancelled
		}
		return paymentID, nil
	}
}
