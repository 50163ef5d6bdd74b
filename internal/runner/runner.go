package runner

import (
	"context"
	"errors"
	"os"

	"github.com/projectdiscovery/arpmon/pkg/client"
	"github.com/projectdiscovery/arpmon/pkg/output"
	"github.com/projectdiscovery/arpmon/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
)

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	engine  *arp.Engine
	writer  *output.Writer
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	r := &Runner{options: options}

	switch {
	case options.Output != "":
		writer, err := output.NewFileWriter(options.Output)
		if err != nil {
			return nil, errorutil.NewWithErr(err).Msgf("could not create output writer")
		}
		r.writer = writer
	case options.JSONL:
		r.writer = output.NewWriter(os.Stdout)
	}

	engine, err := arp.New(r.engineOptions())
	if err != nil {
		_ = r.Close()
		return nil, errorutil.NewWithErr(err).Msgf("could not create discovery engine")
	}
	r.engine = engine

	return r, nil
}

func (r *Runner) engineOptions() *arp.Options {
	opts := r.options.engineOptions()
	opts.OnEvent = r.onEvent
	if r.options.ResolveVendor {
		opts.HTTPClient = client.CreateVendorClient(r.options.VendorToken, r.options.VendorTimeout)
	}
	return opts
}

// Run the instance
func (r *Runner) Run(ctx context.Context) error {
	iface := r.engine.Interface()
	gologger.Info().Msgf("Using interface %s (%s), %d hosts to probe", iface.Name, iface.Network, r.engine.Candidates())

	if r.options.Once {
		if err := r.engine.Discover(ctx); err != nil {
			return errorutil.NewWithErr(err).Msgf("discovery interrupted")
		}
		if r.writer == nil || r.options.Output != "" {
			r.printHosts(r.engine.Hosts())
		}
		return nil
	}

	err := r.engine.Monitor(ctx, r.options.Interval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close releases the runner resources
func (r *Runner) Close() error {
	if r.writer == nil {
		return nil
	}
	return r.writer.Close()
}

func (r *Runner) onEvent(event arp.Event) {
	if r.writer != nil {
		r.writer.Write(event)
	}

	switch event.Type {
	case arp.EventFound:
		gologger.Info().Msgf("%s %s", au.BrightGreen("[found]"), formatHost(event.Host))
	case arp.EventUpdate:
		gologger.Info().Msgf("%s %s", au.BrightYellow("[update]"), formatHost(event.Host))
	case arp.EventLost:
		gologger.Info().Msgf("%s %s", au.BrightRed("[lost]"), formatHost(event.Host))
	case arp.EventError:
		gologger.Warning().Msgf("%s", event.Err)
	case arp.EventSuccess:
		gologger.Verbose().Msgf("Discovery cycle completed, %d active hosts", len(event.Hosts))
	}
}

func (r *Runner) printHosts(hosts []arp.HostRecord) {
	for _, host := range hosts {
		gologger.Silent().Msgf("%s", formatHost(host))
	}
}

func formatHost(host arp.HostRecord) string {
	line := host.IP.String() + " " + au.Cyan(host.MAC).String() + " " + host.Hostname
	if host.Vendor != "" {
		line += " [" + au.Magenta(host.Vendor).String() + "]"
	}
	return line
}
