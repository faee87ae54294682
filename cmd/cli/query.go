package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"lorehub/internal/filter"
	"lorehub/internal/grpcserver"
)

// queryFlag maps a command-line flag to its query-string key.
type queryFlag struct {
	flag  string
	key   string
	usage string
}

var monsterFlags = []queryFlag{
	{"type", "type", "creature type, e.g. humanoid"},
	{"cr", "cr", "challenge rating, e.g. 1/4"},
	{"size", "size", "size name, e.g. Medium"},
	{"alignment", "alignment", "alignment name, e.g. \"lawful good\""},
	{"ac", "ac", "armor class"},
	{"hp", "hp", "average hit points"},
	{"speed", "speed", "speed in feet"},
	{"speed-type", "speed_type", "movement mode for --speed (default walk)"},
	{"environment", "environment", "environment substring, e.g. forest"},
}

var spellFlags = []queryFlag{
	{"level", "level", "spell level 0-9"},
	{"ritual", "ritual", "true or false"},
	{"school", "school", "school letter, e.g. V"},
	{"casting-time", "casting_time", "casting time category: " + strings.Join(filter.CastingTimeCategories, ", ")},
	{"range", "range", "range type, e.g. point"},
	{"component-v", "component_v", "true or false"},
	{"component-s", "component_s", "true or false"},
	{"component-m", "component_m", "true or false"},
	{"duration", "duration", "duration type, e.g. timed"},
	{"concentration", "concentration", "true or false"},
}

func newMonstersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monsters",
		Short: "Filter monsters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vals := collect(cmd, monsterFlags)
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
				var q filter.MonsterQuery
				if err := decodeQuery(vals, &q); err != nil {
					return err
				}
				return withGRPC(addr, func(c *grpcserver.Client) error {
					resp, err := c.FilterMonsters(ctx, q)
					if err != nil {
						return err
					}
					return printRecords(cmd, resp.Records)
				})
			}

			var resp struct {
				Monsters []filter.Record `json:"monsters"`
			}
			if err := doJSON(ctx, httpClient(cmd), apiURL(cmd, "/monsters", vals), &resp); err != nil {
				return err
			}
			return printRecords(cmd, resp.Monsters)
		},
	}
	addFlags(cmd, monsterFlags)
	return cmd
}

func newSpellsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spells",
		Short: "Filter spells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vals := collect(cmd, spellFlags)
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if addr, _ := cmd.Flags().GetString("grpc"); addr != "" {
				var q filter.SpellQuery
				if err := decodeQuery(vals, &q); err != nil {
					return err
				}
				return withGRPC(addr, func(c *grpcserver.Client) error {
					resp, err := c.FilterSpells(ctx, q)
					if err != nil {
						return err
					}
					return printRecords(cmd, resp.Records)
				})
			}

			var resp struct {
				Spells []filter.Record `json:"spells"`
			}
			if err := doJSON(ctx, httpClient(cmd), apiURL(cmd, "/spells", vals), &resp); err != nil {
				return err
			}
			return printRecords(cmd, resp.Spells)
		},
	}
	addFlags(cmd, spellFlags)
	return cmd
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List monster fields usable with match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			var resp struct {
				Fields []string `json:"fields"`
			}
			if err := doJSON(ctx, httpClient(cmd), apiURL(cmd, "/monsters/fields", nil), &resp); err != nil {
				return err
			}
			for _, f := range resp.Fields {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <field=value>...",
		Short: "Match monsters by exact string fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := pairs(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			var resp struct {
				Monsters []filter.Record `json:"monsters"`
			}
			if err := doJSON(ctx, httpClient(cmd), apiURL(cmd, "/monsters/match", vals), &resp); err != nil {
				return err
			}
			return printRecords(cmd, resp.Monsters)
		},
	}
}

func addFlags(cmd *cobra.Command, flags []queryFlag) {
	for _, f := range flags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

// collect returns the flags the user actually set, keyed as the API
// expects them.
func collect(cmd *cobra.Command, flags []queryFlag) url.Values {
	vals := url.Values{}
	for _, f := range flags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		vals.Set(f.key, v)
	}
	return vals
}

// decodeQuery binds query-string values into a query struct with the same
// rules the HTTP server applies.
func decodeQuery(vals url.Values, out any) error {
	req := &http.Request{URL: &url.URL{RawQuery: vals.Encode()}}
	if err := binding.Query.Bind(req, out); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return nil
}

func pairs(args []string) (url.Values, error) {
	vals := url.Values{}
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected field=value, got %q", a)
		}
		vals.Set(k, v)
	}
	return vals, nil
}

func apiURL(cmd *cobra.Command, path string, vals url.Values) string {
	base, _ := cmd.Flags().GetString("api")
	u := strings.TrimRight(base, "/") + path
	if len(vals) > 0 {
		u += "?" + vals.Encode()
	}
	return u
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return context.WithTimeout(cmd.Context(), timeout)
}

func withGRPC(addr string, fn func(*grpcserver.Client) error) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	defer conn.Close()
	return fn(grpcserver.NewClient(conn))
}
