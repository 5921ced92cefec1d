package sse

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"launchpad/internal/domain"
)

const maxFrameSize = 1 << 20

// connectionLost is what the user sees when the stream ends without a verdict.
func connectionLost(cause error) error {
	err := domain.ErrConnectionLost
	if cause != nil {
		err = fmt.Errorf("%w: %w", domain.ErrConnectionLost, cause)
	}
	return domain.NewDomainError("sse.Decode", err, "Connection lost. Please try again.")
}

// Decode reads frames from body, calling onEvent for each event in order, until
// a terminal event arrives. Comments, blank lines and other fields are skipped,
// as are frames that do not decode. A stream that ends first yields
// domain.ErrConnectionLost.
func Decode(ctx context.Context, body io.Reader, onEvent func(domain.ProvisioningEvent)) (domain.ProvisioningEvent, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := scanner.Bytes()
		if len(line) == 0 || line[0] == ':' {
			continue
		}
		data, ok := bytes.CutPrefix(line, []byte("data: "))
		if !ok {
			continue
		}

		ev, err := domain.UnmarshalEvent(data)
		if err != nil {
			continue
		}
		onEvent(ev)
		if ev.Terminal() {
			return ev, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, connectionLost(scanner.Err())
}
