package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/lpdb-go/pkg/jsonutil"
	"github.com/r9s-ai/lpdb-go/pkg/lpdb"
	"github.com/r9s-ai/lpdb-go/pkg/schema"
)

type queryOptions struct {
	wiki       string
	wikis      []string
	conditions string
	where      []string
	anyOf      bool
	fields     []string
	limit      int
	offset     int
	order      string
	groupBy    string
	params     []string
	dryRun     bool
	pick       string
	pretty     bool
}

func newQueryCmd(g *globalOptions) *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "query <resource>",
		Short: "Run one LPDB query and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryWithOptions(cmd, g, args[0], opts)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.wiki, "wiki", "", "wiki to query (e.g. dota2)")
	fs.StringSliceVar(&opts.wikis, "wikis", nil, "several wikis, comma separated")
	fs.StringVar(&opts.conditions, "conditions", "", "raw conditions expression")
	fs.StringArrayVar(&opts.where, "where", nil, "condition term field::value (repeatable; ::!, ::<, ::> also accepted)")
	fs.BoolVar(&opts.anyOf, "any", false, "join --where terms with OR instead of AND")
	fs.StringSliceVar(&opts.fields, "fields", nil, "fields to return, comma separated")
	fs.IntVar(&opts.limit, "limit", 0, "maximum number of results")
	fs.IntVar(&opts.offset, "offset", 0, "number of results to skip")
	fs.StringVar(&opts.order, "order", "", "order expression (e.g. \"name ASC\")")
	fs.StringVar(&opts.groupBy, "groupby", "", "groupby expression")
	fs.StringArrayVar(&opts.params, "param", nil, "extra parameter key=value (repeatable)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print the request URL without sending it")
	fs.StringVar(&opts.pick, "pick", "", "print values selected by a path such as $.result[*].name")
	fs.BoolVar(&opts.pretty, "pretty", false, "indent JSON output even when stdout is not a terminal")
	return cmd
}

func runQueryWithOptions(cmd *cobra.Command, g *globalOptions, resource string, opts *queryOptions) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	rt, err := g.openRuntime(cmd.Context(), cfg, cmd.ErrOrStderr(), !opts.dryRun)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	q, err := buildQuery(cmd, rt.client, resource, opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.dryRun {
		u, err := q.URL()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, u)
		return nil
	}

	body, err := q.ExecuteRaw(cmd.Context())
	if err != nil {
		return err
	}
	if opts.pick != "" {
		return printPicked(out, body, opts.pick)
	}
	return printJSON(out, body, opts.pretty || isTerminal(out))
}

func buildQuery(cmd *cobra.Command, client *lpdb.Client, resource string, opts *queryOptions) (*lpdb.Query, error) {
	q := client.Endpoint(schema.Resource(resource))
	if opts.wiki != "" {
		q.Wiki(opts.wiki)
	}
	if len(opts.wikis) > 0 {
		q.Wikis(opts.wikis...)
	}
	where, err := buildWhere(opts.where, opts.anyOf)
	if err != nil {
		return nil, err
	}
	if expr := combineConditions(opts.conditions, where); !expr.Empty() {
		q.Where(expr)
	}
	if len(opts.fields) > 0 {
		q.Query(opts.fields...)
	}
	fs := cmd.Flags()
	if fs.Changed("limit") {
		q.Limit(opts.limit)
	}
	if fs.Changed("offset") {
		q.Offset(opts.offset)
	}
	if opts.order != "" {
		q.Order(opts.order)
	}
	if opts.groupBy != "" {
		q.GroupBy(opts.groupBy)
	}
	for _, kv := range opts.params {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("param %q: want key=value", kv)
		}
		q.Set(k, v)
	}
	if err := q.Err(); err != nil {
		return nil, err
	}
	return q, nil
}

func printJSON(w io.Writer, body []byte, indent bool) error {
	if !indent {
		_, err := w.Write(append(bytes.TrimRight(body, "\n"), '\n'))
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		// Not JSON; print as received.
		_, err := w.Write(body)
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// printPicked prints one line per selected value. Strings are printed bare
// and everything else as compact JSON.
func printPicked(w io.Writer, body []byte, expr string) error {
	p, err := jsonutil.Compile(expr)
	if err != nil {
		return err
	}
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	vals, ok := p.Select(root)
	if !ok {
		return errors.New("pick: path " + p.String() + " matched nothing")
	}
	for _, v := range vals {
		if s, isString := v.(string); isString {
			_, _ = fmt.Fprintln(w, s)
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, string(b))
	}
	return nil
}
