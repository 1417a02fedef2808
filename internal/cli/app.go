// Package cli is the terminal front-end of the console. It drives the same
// identity store, session resolver and screen controllers as the web
// console, keeping the tenant id and the session cookie under a config
// directory between runs.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/identity"
	"github.com/Harshitk-cp/sump-console/internal/session"
	"go.uber.org/zap"
)

const cookieFile = "cookies.json"

// App holds the CLI's settings and streams. Commands open a console per
// invocation with open.
type App struct {
	APIURL    string
	ConfigDir string
	NoColor   bool
	Verbose   bool

	In  io.Reader
	Out io.Writer
	Err io.Writer

	reader *bufio.Reader
}

// DefaultConfigDir is <user config dir>/sump-console.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".sump-console"
	}
	return filepath.Join(dir, "sump-console")
}

// console is what one command invocation works with.
type console struct {
	ids      *identity.Store
	jar      *apiclient.FileJar
	client   *apiclient.Client
	resolver *session.Resolver
	printer  *Printer
	logger   *zap.Logger
}

func (a *App) logger() *zap.Logger {
	if !a.Verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (a *App) printer() *Printer {
	return NewPrinter(a.Out, a.Err, ResolveColors(a.NoColor))
}

// open loads the stored tenant id and session cookie.
func (a *App) open(ctx context.Context) (*console, error) {
	logger := a.logger()
	jar, err := apiclient.NewFileJar(filepath.Join(a.ConfigDir, cookieFile))
	if err != nil {
		return nil, err
	}
	client, err := apiclient.New(a.APIURL, logger, apiclient.WithJar(jar))
	if err != nil {
		return nil, err
	}
	ids := identity.New(ctx, identity.NewFileStorage(a.ConfigDir), logger)
	return &console{
		ids:      ids,
		jar:      jar,
		client:   client,
		resolver: session.NewResolver(client, ids, logger),
		printer:  a.printer(),
		logger:   logger,
	}, nil
}

// requireSession resolves the session and fails with a hint when the user
// is not signed in.
func (c *console) requireSession(ctx context.Context) error {
	if !c.ids.Has() {
		return fmt.Errorf("no tenant selected, run 'consolectl tenant use <tenant-id>' or 'consolectl setup'")
	}
	if !c.resolver.Resolve(ctx).IsAuthenticated() {
		return fmt.Errorf("not signed in, run 'consolectl login <identifier>'")
	}
	return nil
}

// readLine reads one line from In, without the newline.
func (a *App) readLine() (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks a question on Out and returns the answer.
func (a *App) prompt(question string) (string, error) {
	fmt.Fprint(a.Out, question)
	return a.readLine()
}

// confirm asks a yes/no question; anything but y or yes is no.
func (a *App) confirm(question string) bool {
	answer, err := a.prompt(question + " [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
