package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"lorehub/internal/filter"
)

func httpClient(cmd *cobra.Command) *http.Client {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return &http.Client{Timeout: timeout}
}

func doJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		if msg := gjson.GetBytes(data, "error"); msg.Exists() {
			return fmt.Errorf("GET %s failed: %s", endpoint, msg.String())
		}
		return fmt.Errorf("GET %s failed: %s", endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// printRecords writes one "name (source)" line per record, or the records
// as an indented JSON array with -o json.
func printRecords(cmd *cobra.Command, recs []filter.Record) error {
	w := cmd.OutOrStdout()
	if format, _ := cmd.Flags().GetString("output"); format == "json" {
		if recs == nil {
			recs = []filter.Record{}
		}
		b, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	for _, r := range recs {
		name := gjson.GetBytes(r, "name").String()
		if name == "" {
			name = "(unnamed)"
		}
		if src := gjson.GetBytes(r, "source").String(); src != "" {
			fmt.Fprintf(w, "%s (%s)\n", name, src)
			continue
		}
		fmt.Fprintln(w, name)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d records\n", len(recs))
	return nil
}
