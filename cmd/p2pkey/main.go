// Command p2pkey generates and verifies libp2p-style private key files: an
// RSA private key in DER, wrapped in a two-field protobuf envelope.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const envPrefix = "P2PKEY_"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	return newApp(in, out, errOut, runtime.GOOS).run(args)
}

// app carries the I/O and host facts every subcommand needs.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	goos   string
	log    *logrus.Logger

	verbose bool

	okColor   *color.Color
	warnColor *color.Color
	failColor *color.Color
}

func newApp(in io.Reader, out io.Writer, errOut io.Writer, goos string) *app {
	log := logrus.New()
	log.SetOutput(errOut)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	a := &app{
		in:        bufio.NewReader(in),
		out:       out,
		errOut:    errOut,
		goos:      goos,
		log:       log,
		okColor:   color.New(color.FgGreen),
		warnColor: color.New(color.FgYellow),
		failColor: color.New(color.FgRed),
	}
	enable := supportsColor(out)
	for _, c := range []*color.Color{a.okColor, a.warnColor, a.failColor} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return a
}

func (a *app) run(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.Execute(); err != nil {
		a.fail("%v", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "p2pkey",
		Short: "Generate and verify protobuf-framed RSA private key files",
		Long: `p2pkey writes RSA private keys in the two-field protobuf envelope used by
libp2p peers (field 1: key type, field 2: DER key bytes) and checks the
framing of existing files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := setFlagsFromEnv(envPrefix, cmd.Flags()); err != nil {
				return err
			}
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.generateCmd(), a.verifyCmd(), a.idCmd())
	return root
}

// setFlagsFromEnv fills every flag not given on the command line from
// PREFIX_FLAG_NAME environment variables. The first value a flag rejects is
// returned as an error.
func setFlagsFromEnv(prefix string, fs *pflag.FlagSet) error {
	var firstErr error
	set := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	fs.VisitAll(func(f *pflag.Flag) {
		if set[f.Name] || firstErr != nil {
			return
		}
		cleanPrefix := strings.TrimSuffix(prefix, "_")
		name := fmt.Sprintf("%s_%s", cleanPrefix, strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"))
		if e, ok := os.LookupEnv(name); ok {
			if err := f.Value.Set(e); err != nil {
				firstErr = fmt.Errorf("invalid %s=%q: %w", name, e, err)
			}
		}
	})
	return firstErr
}

// supportsColor reports whether w is a color-capable terminal.
func supportsColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb"
}

func (a *app) ok(format string, args ...any) {
	a.okColor.Fprintf(a.out, "✅ "+format+"\n", args...)
}

func (a *app) warn(format string, args ...any) {
	a.warnColor.Fprintf(a.out, "⚠️  "+format+"\n", args...)
}

func (a *app) fail(format string, args ...any) {
	a.failColor.Fprintf(a.errOut, "❌ "+format+"\n", args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
