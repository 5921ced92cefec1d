package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"launchpad/internal/adapter/gateway"
	"launchpad/internal/domain"
)

var watchToken string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the setup backend's live event feed",
	Long: `Connect to the backend's WebSocket feed and print every publish and
credential event as it happens. The backend must run with gateway.feed_enabled.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchToken, "token", os.Getenv("LAUNCHPAD_FEED_TOKEN"), "feed token (default $LAUNCHPAD_FEED_TOKEN)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := loadApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	target, err := feedURL(a.cfg.Server.BackendURL, watchToken)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, _, err := websocket.Dial(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connect to feed: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	out := cmd.OutOrStdout()
	for {
		var frame gateway.Frame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}
			return fmt.Errorf("read feed: %w", err)
		}
		line, err := formatFrame(frame)
		if err != nil {
			a.logger.Warn("skipping malformed frame", "type", frame.Type, "error", err)
			continue
		}
		fmt.Fprintln(out, line)
	}
}

// feedURL turns the backend's http(s) base URL into the ws(s) feed URL.
func feedURL(backend, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(backend, "/"))
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("backend url must be http or https, got %q", backend)
	}
	u.Path += "/ws"
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}
	return u.String(), nil
}

func formatFrame(f gateway.Frame) (string, error) {
	switch f.Type {
	case gateway.FrameTypeHello:
		var hello struct {
			Client string `json:"client"`
		}
		if err := json.Unmarshal(f.Payload, &hello); err != nil {
			return "", err
		}
		return fmt.Sprintf("connected as %s", hello.Client), nil
	case gateway.FrameTypeEvent:
		var ev domain.Event
		if err := json.Unmarshal(f.Payload, &ev); err != nil {
			return "", err
		}
		return formatEvent(ev)
	default:
		return "", fmt.Errorf("unknown frame type %q", f.Type)
	}
}

func formatEvent(ev domain.Event) (string, error) {
	stamp := ev.Timestamp.Format("15:04:05")
	if ev.RunID == "" {
		return fmt.Sprintf("%s %s", stamp, ev.Type), nil
	}
	pe, err := domain.UnmarshalEvent(ev.Payload)
	if err != nil {
		return "", err
	}
	line := describeEvent(pe)
	if line == "" {
		return "", errors.New("empty event")
	}
	return fmt.Sprintf("%s run=%s #%d %s", stamp, ev.RunID, ev.Seq, line), nil
}
