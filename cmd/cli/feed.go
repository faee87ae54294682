package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newFeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Watch the live query feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useWS, _ := cmd.Flags().GetBool("ws")
			pretty, _ := cmd.Flags().GetBool("pretty")
			out := cmd.OutOrStdout()

			if useWS {
				base, _ := cmd.Flags().GetString("api")
				endpoint, err := websocketURL(base, "/ws")
				if err != nil {
					return fmt.Errorf("ws url: %w", err)
				}
				return runWebSocket(endpoint, out, pretty)
			}

			addr, _ := cmd.Flags().GetString("addr")
			for {
				if err := runFeedTCP(addr, out, pretty); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "[feed] disconnected: %v\n", err)
				}
				select {
				case <-cmd.Context().Done():
					return nil
				case <-time.After(time.Second):
				}
			}
		},
	}
	cmd.Flags().String("addr", defaultFeedAddr, "feed TCP address")
	cmd.Flags().Bool("ws", false, "subscribe over the API's /ws websocket instead of TCP")
	cmd.Flags().Bool("pretty", true, "pretty print JSON events")
	return cmd
}

func runFeedTCP(addr string, w io.Writer, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		writeEvent(w, reader.Bytes(), pretty)
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return io.EOF
}

func runWebSocket(wsURL string, w io.Writer, pretty bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		writeEvent(w, msg, pretty)
	}
}

func writeEvent(w io.Writer, line []byte, pretty bool) {
	if !pretty {
		fmt.Fprintln(w, string(line))
		return
	}
	var obj map[string]any
	if err := json.Unmarshal(line, &obj); err != nil {
		fmt.Fprintln(w, string(line))
		return
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	fmt.Fprintln(w, string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}
