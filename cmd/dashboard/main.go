// FilePath: cmd/dashboard/main.go
package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/itsatony/irrigador/internal/config"
	"github.com/itsatony/irrigador/internal/dashboard"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	nuts.InitVersion()

	cfg, err := config.LoadDashboard()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	dc := cfg.Dashboard

	loc, err := time.LoadLocation(dc.Timezone)
	if err != nil {
		log.Fatalf("Invalid dashboard timezone %q: %v", dc.Timezone, err)
	}

	var source dashboard.DataSource
	switch dc.Source {
	case config.SourceFixture:
		source = dashboard.NewFixtureSource(dc.FixtureDelay)
	default:
		source = dashboard.NewHTTPSource(dc.APIURL, dc.FetchTimeout)
	}

	view := dashboard.NewTerminalView(dc.DeviceID, dc.LoginURL)
	ctrl, err := dashboard.NewController(dashboard.Options{
		DeviceID:     dc.DeviceID,
		Session:      dashboard.NewFileSession(dc.SessionFile),
		Source:       source,
		Issuer:       dashboard.NewStubIssuer(dc.CommandDelay),
		View:         view,
		Notifier:     view,
		Navigator:    view,
		Formatter:    dashboard.NewFormatter(dc.DateLayout, loc),
		FetchTimeout: dc.FetchTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to create dashboard: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logResult(ctrl.Load(ctx))

	var tick <-chan time.Time
	if dc.RefreshInterval > 0 {
		ticker := time.NewTicker(dc.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	commands := readCommands()
	for {
		select {
		case <-ctx.Done():
			return
		case <-view.Redirected():
			return
		case <-tick:
			go func() { logResult(ctrl.Refresh(ctx)) }()
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			switch cmd {
			case "w":
				go func() { logResult(ctrl.TriggerManualAction(ctx)) }()
			case "r":
				go func() { logResult(ctrl.Refresh(ctx)) }()
			case "l":
				logResult(ctrl.Logout())
			case "q":
				return
			}
		}
	}
}

func readCommands() <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			out <- strings.ToLower(strings.TrimSpace(scanner.Text()))
		}
	}()
	return out
}

func logResult(err error) {
	switch {
	case err == nil:
	case stderrors.Is(err, dashboard.ErrBusy), stderrors.Is(err, dashboard.ErrInvalidState):
		nuts.L.Debugf("[Dashboard] %v", err)
	default:
		nuts.L.Debugf("[Dashboard] Action ended with error: %v", err)
	}
}
