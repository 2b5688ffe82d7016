// Command dvelopctl is a small command line client for a d.velop tenant.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	dvelop "github.com/d-velop/dvelop-sdk-go"
	"github.com/d-velop/dvelop-sdk-go/internal/logger"
)

const requestTimeout = 30 * time.Second

type rootOptions struct {
	baseURI       string
	authSessionID string
	logLevel      string
	debug         bool
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "dvelopctl",
		Short:         "Talk to a d.velop cloud tenant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.ParseLevel(opts.logLevel)
			if opts.debug {
				level = logger.ParseLevel("debug")
			}
			logger.InitConsole(level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURI, "base-uri", os.Getenv("DVELOP_SYSTEM_BASE_URI"), "System base URI of the tenant")
	rootCmd.PersistentFlags().StringVar(&opts.authSessionID, "auth-session-id", os.Getenv("DVELOP_AUTH_SESSION_ID"), "Auth session ID used as bearer token")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Dump HTTP traffic")

	rootCmd.AddCommand(newFollowCmd(opts))
	rootCmd.AddCommand(newTaskCmd(opts))
	rootCmd.AddCommand(newDmsCmd(opts))
	rootCmd.AddCommand(newLogCmd(opts))
	rootCmd.AddCommand(newWhoAmICmd(opts))

	return rootCmd
}

func (o *rootOptions) client() (*dvelop.Client, error) {
	if o.baseURI == "" {
		return nil, fmt.Errorf("--base-uri or DVELOP_SYSTEM_BASE_URI is required")
	}
	return dvelop.New(o.baseURI, o.authSessionID,
		dvelop.WithDebugLogging(o.debug),
		dvelop.WithLogger(log.Logger),
	)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseTemplates turns k=v pairs into scalar values and k=a,b pairs from
// lists into list values.
func parseTemplates(scalars, lists []string) (dvelop.Templates, error) {
	tpl := dvelop.Templates{}
	for _, kv := range scalars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid template %q, want name=value", kv)
		}
		tpl[k] = dvelop.StringValue(v)
	}
	for _, kv := range lists {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid template list %q, want name=a,b", kv)
		}
		var items []string
		if v != "" {
			items = strings.Split(v, ",")
		}
		tpl[k] = dvelop.ListValue(items...)
	}
	return tpl, nil
}

func newFollowCmd(opts *rootOptions) *cobra.Command {
	var (
		rels      []string
		templates []string
		lists     []string
		fetch     bool
	)

	cmd := &cobra.Command{
		Use:   "follow <url>",
		Short: "Follow HAL relations from url and print where they lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := parseTemplates(templates, lists)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			nav := dvelop.Navigation{URL: args[0], Follows: rels, Templates: tpl}
			log.Debug().Str("url", nav.URL).Strs("rels", rels).Msg("following")

			if fetch {
				data, err := c.Fetch(ctx, nav)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			res, err := c.Resolve(ctx, nav)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().StringArrayVar(&rels, "rel", nil, "Relation to follow (repeatable, in order)")
	cmd.Flags().StringArrayVar(&templates, "template", nil, "Template value name=value (repeatable)")
	cmd.Flags().StringArrayVar(&lists, "template-list", nil, "List template value name=a,b (repeatable)")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fetch the final resource instead of printing its URL")

	return cmd
}

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}

	var (
		subject     string
		description string
		assignees   []string
		details     string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			start := time.Now()
			loc, err := c.CreateTask(ctx, dvelop.CreateTaskParams{
				Subject:     subject,
				Description: description,
				Assignees:   assignees,
				DetailsURI:  details,
			})
			if err != nil {
				log.Error().Err(err).Str("subject", subject).Dur("elapsed", time.Since(start)).Msg("create task failed")
				return err
			}
			log.Debug().Str("location", loc).Dur("elapsed", time.Since(start)).Msg("create task completed")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Task created: %s\n", loc)
			return err
		},
	}
	create.Flags().StringVar(&subject, "subject", "", "Task subject (required)")
	create.Flags().StringVar(&description, "description", "", "Description (optional)")
	create.Flags().StringArrayVar(&assignees, "assignee", nil, "Assignee user or group ID (repeatable, required)")
	create.Flags().StringVar(&details, "details-uri", "", "Link to the task details (optional)")
	_ = create.MarkFlagRequired("subject")
	_ = create.MarkFlagRequired("assignee")

	var taskID string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			task, err := c.GetTask(ctx, taskID)
			if err != nil {
				return err
			}
			return printJSON(cmd, task)
		},
	}
	get.Flags().StringVar(&taskID, "id", "", "Task ID (required)")
	_ = get.MarkFlagRequired("id")

	var completeID string
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Mark a task as done",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			if err := c.CompleteTask(ctx, completeID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Task completed: %s\n", completeID)
			return err
		},
	}
	complete.Flags().StringVar(&completeID, "id", "", "Task ID (required)")
	_ = complete.MarkFlagRequired("id")

	cmd.AddCommand(create, get, complete)
	return cmd
}

func newDmsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "dms", Short: "Read DMS objects"}

	repos := &cobra.Command{
		Use:   "repos",
		Short: "List repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			list, err := c.GetRepositories(ctx)
			if err != nil {
				return err
			}
			for _, r := range list {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.ID, r.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	var p dvelop.GetDmsObjectParams
	get := &cobra.Command{
		Use:   "get",
		Short: "Show a DMS object",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			obj, err := c.GetDmsObject(ctx, p)
			if err != nil {
				return err
			}
			return printJSON(cmd, obj)
		},
	}
	get.Flags().StringVar(&p.RepositoryID, "repo", "", "Repository ID (required)")
	get.Flags().StringVar(&p.SourceID, "source", "", "Source ID (required)")
	get.Flags().StringVar(&p.DmsObjectID, "id", "", "DMS object ID (required)")
	_ = get.MarkFlagRequired("repo")
	_ = get.MarkFlagRequired("source")
	_ = get.MarkFlagRequired("id")

	cmd.AddCommand(repos, get)
	return cmd
}

func newLogCmd(opts *rootOptions) *cobra.Command {
	var source, body, severity string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Ship one log event and wait for delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			sev, err := parseSeverity(severity)
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			ack, err := c.Log(ctx, source, dvelop.LogEvent{Severity: sev, Body: body})
			if err != nil {
				return err
			}
			if err := c.AwaitConsistency(ctx, source); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Log event %s: %s\n", ack.EventID, ack.Status)
			return err
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Source service name (required)")
	cmd.Flags().StringVar(&body, "body", "", "Message (required)")
	cmd.Flags().StringVar(&severity, "severity", "info", "trace, debug, info, warn, error or fatal")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func parseSeverity(s string) (dvelop.Severity, error) {
	switch strings.ToLower(s) {
	case "trace":
		return dvelop.SeverityTrace, nil
	case "debug":
		return dvelop.SeverityDebug, nil
	case "info", "":
		return dvelop.SeverityInfo, nil
	case "warn", "warning":
		return dvelop.SeverityWarn, nil
	case "error":
		return dvelop.SeverityError, nil
	case "fatal":
		return dvelop.SeverityFatal, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func newWhoAmICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the auth session and print its user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			u, err := c.ValidateAuthSessionID(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
}
