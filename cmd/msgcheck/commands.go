package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/c3p0-box/msgcheck/api"
	"github.com/c3p0-box/msgcheck/catalog"
	"github.com/c3p0-box/msgcheck/msgfmt"
	"github.com/c3p0-box/msgcheck/set"
	"github.com/c3p0-box/msgcheck/srv"
	"github.com/spf13/cobra"
)

// errInvalid is returned when a check ran and found problems. The findings
// have already been printed.
var errInvalid = errors.New("validation failed")

type app struct {
	cfg    Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "msgcheck",
		Short:         "Validate message format templates and translation catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("notation", "", "template notation: printf, message-format or no-format (env MSGCHECK_NOTATION)")
	flags.String("language", "", "language of diagnostics (env MSGCHECK_LANGUAGE)")
	flags.String("log-level", "", "debug, info, warn or error (env MSGCHECK_LOG_LEVEL)")
	flags.String("log-format", "", "text or json (env MSGCHECK_LOG_FORMAT)")
	flags.Bool("json", false, "print results as JSON")

	root.AddCommand(a.validateCommand(), a.checkCommand(), a.serveCommand())
	return root
}

// configure loads the environment config and applies explicitly set flags
// on top of it.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	overrides := []struct {
		flag   string
		target *string
	}{
		{"language", &cfg.Language},
		{"log-level", &cfg.LogLevel},
		{"log-format", &cfg.LogFormat},
		{"base-language", &cfg.BaseLanguage},
		{"host", &cfg.Host},
		{"port", &cfg.Port},
	}
	for _, o := range overrides {
		if f := flags.Lookup(o.flag); f != nil && f.Changed {
			*o.target = f.Value.String()
		}
	}
	if flags.Changed("notation") {
		value, _ := flags.GetString("notation")
		if err := cfg.Notation.UnmarshalText([]byte(value)); err != nil {
			return err
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) validator() (*msgfmt.Validator, error) {
	tag, err := a.cfg.languageTag()
	if err != nil {
		return nil, err
	}
	return msgfmt.New(msgfmt.WithLanguage(tag), msgfmt.WithLogger(a.logger)), nil
}

func (a *app) validateCommand() *cobra.Command {
	var (
		arguments int
		base      string
	)

	cmd := &cobra.Command{
		Use:   "validate TEMPLATE",
		Short: "Validate one template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.validator()
			if err != nil {
				return err
			}

			var verdict msgfmt.Verdict
			var baseErr error
			switch {
			case cmd.Flags().Changed("base"):
				verdict, baseErr = v.ValidateTranslation(a.cfg.Notation, base, args[0])
			case cmd.Flags().Changed("arguments"):
				verdict = v.ValidateCount(a.cfg.Notation, args[0], arguments)
			default:
				verdict = v.Validate(a.cfg.Notation, args[0])
			}
			if baseErr != nil {
				a.logger.With(
					slog.String("name", "msgcheck.validate"),
					slog.String("base", base),
					slog.Any("error", baseErr),
				).Warn("base template is invalid, translation checked on its own")
			}

			if err := printVerdict(cmd.OutOrStdout(), verdict, jsonOutput(cmd)); err != nil {
				return err
			}
			if !verdict.Valid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&arguments, "arguments", 0, "number of arguments the call site passes")
	cmd.Flags().StringVar(&base, "base", "", "base template TEMPLATE translates")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Check go-i18n message files (json, yaml, toml) against the base language",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			base, err := a.cfg.baseTag()
			if err != nil {
				return err
			}
			v, err := a.validator()
			if err != nil {
				return err
			}

			cat, err := catalog.LoadFiles(base, files...)
			if err != nil {
				return err
			}

			wanted := set.FromStr(only, ",")
			present := set.New[string]()
			for _, tag := range cat.Languages() {
				present.Add(tag.String())
			}
			if missing := wanted.Difference(present); !missing.IsEmpty() {
				a.logger.With(
					slog.String("name", "msgcheck.check"),
					slog.String("languages", set.ToStr(missing, ",")),
				).Warn("requested languages are not in the catalog")
			}

			report := catalog.NewChecker(a.cfg.Notation,
				catalog.WithValidator(v),
				catalog.WithLanguages(wanted),
				catalog.WithLogger(a.logger),
			).Check(cat)

			if err := printReport(cmd.OutOrStdout(), report, jsonOutput(cmd)); err != nil {
				return err
			}
			if !report.Valid() {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().String("base-language", "", "base language of the catalog (env MSGCHECK_BASE_LANGUAGE)")
	cmd.Flags().StringVar(&only, "only", "", "comma-separated languages to check")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := a.cfg.baseTag()
			if err != nil {
				return err
			}

			server := api.New(
				api.WithNotation(a.cfg.Notation),
				api.WithBaseLanguage(base),
				api.WithLogger(a.logger),
			)
			return srv.RunServer(cmd.Context(), server.Handler(), a.cfg.Host, a.cfg.Port, func() error {
				a.logger.With(slog.String("name", "msgcheck.serve")).Info("server stopped")
				return nil
			})
		},
	}

	cmd.Flags().String("host", "", "listen host (env MSGCHECK_HOST)")
	cmd.Flags().String("port", "", "listen port (env MSGCHECK_PORT)")
	cmd.Flags().String("base-language", "", "default catalog base language (env MSGCHECK_BASE_LANGUAGE)")
	return cmd
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printVerdict(w io.Writer, v msgfmt.Verdict, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(v)
	}
	if v.Valid {
		_, err := fmt.Fprintf(w, "%s (%d arguments)\n", v.Summary, v.ArgumentCount)
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", v.Summary, v.Detail)
	return err
}

func printReport(w io.Writer, r *catalog.Report, asJSON bool) error {
	if asJSON {
		data, err := r.ToJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	_, err := fmt.Fprintln(w, r.String())
	return err
}
