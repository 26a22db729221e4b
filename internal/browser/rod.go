package browser

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/andywolf/issuecast/internal/config"
	"github.com/andywolf/issuecast/internal/logging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodDriver drives Chrome over the DevTools protocol with go-rod.
type RodDriver struct {
	cfg    config.BrowserConfig
	logger *logging.Logger
	rng    *rand.Rand

	browser *rod.Browser
	page    *rod.Page

	// overridable in tests
	spawn   func(bin string, args []string) error
	resolve func(addr string) (string, error)
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRodDriver creates a driver for cfg. A nil logger discards output.
func NewRodDriver(cfg config.BrowserConfig, logger *logging.Logger) *RodDriver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &RodDriver{
		cfg:     cfg,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		spawn:   spawnDetached,
		resolve: launcher.ResolveURL,
		sleep:   sleepCtx,
	}
}

// Connect attaches to a browser already listening on the debug address.
func (d *RodDriver) Connect(ctx context.Context) error {
	u, err := d.resolve(d.cfg.DebugAddress)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", d.cfg.DebugAddress, err)
	}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	d.browser = b
	return nil
}

// Launch spawns Chrome detached from this process with remote debugging on the
// configured address and a persistent profile, then polls until it answers.
func (d *RodDriver) Launch(ctx context.Context) error {
	args, err := launchArgs(d.cfg)
	if err != nil {
		return &LaunchError{Address: d.cfg.DebugAddress, Err: err}
	}

	d.logger.Info("launching browser", zap.String("bin", d.cfg.Bin), zap.String("profile", d.cfg.UserDataDir))
	if err := d.spawn(d.cfg.Bin, args); err != nil {
		return &LaunchError{Address: d.cfg.DebugAddress, Err: err}
	}

	err = poll(ctx, d.cfg.LaunchAttempts, d.cfg.LaunchInterval, d.sleep, func() error {
		return d.Connect(ctx)
	})
	if err != nil {
		return &LaunchError{Address: d.cfg.DebugAddress, Attempts: d.cfg.LaunchAttempts, Err: err}
	}
	return nil
}

// Navigate opens a fresh page with a random viewport and loads url.
func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	if d.browser == nil {
		return fmt.Errorf("browser not connected")
	}

	page, err := d.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}

	vp := RandomViewport(d.rng, d.cfg.Viewport)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}); err != nil {
		d.logger.Warn("failed to set viewport", zap.Error(err))
	}

	if d.cfg.Timezone != "" {
		if err := (proto.EmulationSetTimezoneOverride{TimezoneID: d.cfg.Timezone}).Call(page); err != nil {
			d.logger.Debug("timezone override ignored", zap.String("timezone", d.cfg.Timezone), zap.Error(err))
		}
	}

	if err := page.Navigate(url); err != nil {
		return err
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}

	// Chat pages keep long-lived connections open, so settling is bounded.
	if d.cfg.SettleTimeout > 0 {
		if err := page.Timeout(d.cfg.SettleTimeout).WaitStable(500 * time.Millisecond); err != nil {
			d.logger.Debug("page did not settle", zap.Duration("timeout", d.cfg.SettleTimeout), zap.Error(err))
		}
	}

	d.page = page
	return nil
}

// WaitForElement blocks until selector appears. rod retries the query until
// ctx is done.
func (d *RodDriver) WaitForElement(ctx context.Context, selector string) error {
	if d.page == nil {
		return fmt.Errorf("no page loaded")
	}
	_, err := d.page.Context(ctx).Element(selector)
	return err
}

// TypeText focuses the element and inserts text as a single edit.
func (d *RodDriver) TypeText(ctx context.Context, selector, text string) error {
	if d.page == nil {
		return fmt.Errorf("no page loaded")
	}
	page := d.page.Context(ctx)

	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("element not found: %w", err)
	}
	if err := el.Focus(); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	return page.InsertText(text)
}

// FindAndClickByLabel clicks the first element whose text matches label.
func (d *RodDriver) FindAndClickByLabel(ctx context.Context, selector, label string) (bool, error) {
	if d.page == nil {
		return false, fmt.Errorf("no page loaded")
	}

	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return false, err
	}

	texts := make([]string, len(els))
	for i, el := range els {
		txt, err := el.Text()
		if err != nil {
			d.logger.Debug("skipping unreadable element", zap.Int("index", i), zap.Error(err))
			continue
		}
		texts[i] = txt
	}

	i := matchLabel(texts, label)
	if i < 0 {
		return false, nil
	}
	if err := els[i].Click(proto.InputMouseButtonLeft, 1); err != nil {
		return true, err
	}
	return true, nil
}

// matchLabel returns the index of the first text equal to label after
// trimming, ignoring case, or -1.
func matchLabel(texts []string, label string) int {
	want := strings.TrimSpace(label)
	if want == "" {
		return -1
	}
	for i, t := range texts {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return i
		}
	}
	return -1
}

// launchArgs builds the Chrome command line: rod's user-mode flags with the
// configured debug port and profile directory.
func launchArgs(cfg config.BrowserConfig) ([]string, error) {
	port, err := debugPort(cfg.DebugAddress)
	if err != nil {
		return nil, err
	}

	l := launcher.NewUserMode().
		RemoteDebuggingPort(port).
		UserDataDir(cfg.UserDataDir).
		Delete("no-startup-window")
	return l.FormatArgs(), nil
}

func debugPort(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid debug address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid debug port %q", p)
	}
	return port, nil
}

// poll calls probe up to attempts times, sleeping interval before each try,
// and returns the last error if none succeeded.
func poll(ctx context.Context, attempts int, interval time.Duration, sleep func(context.Context, time.Duration) error, probe func() error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if serr := sleep(ctx, interval); serr != nil {
			return serr
		}
		if err = probe(); err == nil {
			return nil
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// spawnDetached starts bin in its own process group and releases it, so it
// outlives this process and ignores the terminal's ctrl-c.
func spawnDetached(bin string, args []string) error {
	cmd := exec.Command(bin, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
