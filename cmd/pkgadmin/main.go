// Command pkgadmin manages the records behind /api/packages-server from a
// terminal: list and search, add, edit, delete and CSV export.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pkgadmin/internal/admin"
	"pkgadmin/internal/config"
	"pkgadmin/internal/logging"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const usage = `usage: pkgadmin <command> [flags]

commands:
  list    [-q query]                 print the packages table
  export  [-q query]                 write the visible packages as CSV
  add     -title ... [field flags]   create a package
  edit    -id N [field flags]        update a package
  delete  -id N [-yes]               delete a package after confirmation
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(viper.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "pkgadmin: %v\n", err)
		os.Exit(1)
	}
	flush, err := logging.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pkgadmin: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli{
		api:    admin.NewHTTPClient(cfg.APIBaseURL, cfg.APITimeout, zap.L().Named("api")),
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if cfg.LogMode != "production" {
			zap.S().Debugf("%+v", err)
		}
		fmt.Fprintf(os.Stderr, "pkgadmin: %v\n", err)
		os.Exit(1)
	}
}

// cli is both the confirmation and the alert surface of the controller.
type cli struct {
	api     admin.API
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	autoYes bool
}

func (c *cli) Confirm(_ context.Context, message string) (bool, error) {
	if c.autoYes {
		return true, nil
	}
	fmt.Fprintf(c.errOut, "%s [y/N] ", message)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "نعم":
		return true, nil
	}
	return false, nil
}

func (c *cli) Alert(_ context.Context, message string) {
	fmt.Fprintf(c.errOut, "! %s\n", message)
}

func (c *cli) controller() *admin.Controller {
	return admin.NewController(c.api, c, c, zap.L().Named("admin"))
}
