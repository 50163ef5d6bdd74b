package runner

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/arpmon/pkg/peerdiscovery/arp"
	"github.com/projectdiscovery/arpmon/pkg/version"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
)

var au = aurora.New(aurora.WithColors(true))

var (
	RestrictEnv    = envutil.GetEnvOrDefault("ARPMON_RESTRICT", "")
	VendorAPIEnv   = envutil.GetEnvOrDefault("ARPMON_VENDOR_API", arp.DefaultVendorAPI)
	VendorTokenEnv = envutil.GetEnvOrDefault("ARPMON_VENDOR_TOKEN", "")
	OutputEnv      = envutil.GetEnvOrDefault("ARPMON_OUTPUT", "")
)

// Options contains the configuration options for tuning the discovery process.
type Options struct {
	ConfigFile string

	Restrict string
	MaxHosts int

	MaxConnections int
	Port           int
	Timeout        time.Duration
	FloodInterval  time.Duration
	Interval       time.Duration
	Once           bool

	ResolveVendor     bool
	VendorAPI         string
	VendorToken       string
	VendorJSONPath    string
	VendorConcurrency int
	VendorTimeout     time.Duration

	Output  string
	JSONL   bool
	NoColor bool

	Verbose bool
	Debug   bool
	Silent  bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`arpmon discovers and monitors hosts on the local subnet through the ARP neighbor cache`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Restrict, "restrict", "r", RestrictEnv, "only use the interface owning the given ipv4 address"),
		flagSet.IntVarP(&options.MaxHosts, "max-hosts", "mh", arp.DefaultMaxHosts, "maximum number of subnet addresses to probe"),
	)

	flagSet.CreateGroup("probe", "Probe",
		flagSet.IntVarP(&options.MaxConnections, "max-connections", "c", arp.DefaultMaxConnections, "maximum number of concurrent probes"),
		flagSet.IntVarP(&options.Port, "port", "p", arp.DefaultPort, "tcp port used to trigger neighbor resolution"),
		flagSet.DurationVarP(&options.Timeout, "timeout", "t", arp.DefaultTimeout, "probe connect timeout"),
		flagSet.DurationVarP(&options.FloodInterval, "flood-interval", "fi", arp.DefaultFloodInterval, "minimum time between two floods"),
		flagSet.DurationVarP(&options.Interval, "interval", "i", time.Minute, "time between two discovery cycles"),
		flagSet.BoolVar(&options.Once, "once", false, "run a single discovery cycle and print the host table"),
	)

	flagSet.CreateGroup("vendor", "Vendor",
		flagSet.BoolVarP(&options.ResolveVendor, "resolve-vendor", "rv", false, "resolve hardware vendors of discovered hosts"),
		flagSet.StringVarP(&options.VendorAPI, "vendor-api", "va", VendorAPIEnv, "vendor lookup api, queried as <api><mac>"),
		flagSet.StringVarP(&options.VendorToken, "vendor-token", "vt", VendorTokenEnv, "bearer token sent to the vendor api"),
		flagSet.StringVarP(&options.VendorJSONPath, "vendor-json-path", "vjp", "", "json path of the vendor in api responses (plain text when empty)"),
		flagSet.IntVarP(&options.VendorConcurrency, "vendor-concurrency", "vc", arp.DefaultVendorConcurrency, "maximum number of concurrent vendor lookups"),
		flagSet.DurationVarP(&options.VendorTimeout, "vendor-timeout", "vto", 10*time.Second, "vendor lookup timeout"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.Output, "output", "o", OutputEnv, "file to write jsonl events to"),
		flagSet.BoolVarP(&options.JSONL, "jsonl", "j", false, "write jsonl events to stdout"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Debug, "debug", false, "show debug output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		if !fileutil.FileExists(options.ConfigFile) {
			gologger.Fatal().Msgf("config file %s does not exist\n", options.ConfigFile)
		}
		if err := flagSet.MergeConfigFile(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("Could not read config: %s\n", err)
		}
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.GetVersion())
		os.Exit(0)
	}

	if err := options.validateOptions(); err != nil {
		gologger.Fatal().Msgf("Program exiting: %s\n", err)
	}

	return options
}

// validateOptions validates the configuration options passed
func (options *Options) validateOptions() error {
	if options.Verbose && options.Silent {
		return errors.New("both verbose and silent mode specified")
	}
	if options.Restrict != "" {
		if ip := net.ParseIP(options.Restrict); ip == nil || ip.To4() == nil {
			return fmt.Errorf("restrict %q is not an ipv4 address", options.Restrict)
		}
	}
	if err := options.engineOptions().Validate(); err != nil {
		return err
	}
	if !options.Once && options.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	if options.ResolveVendor && options.VendorAPI == "" {
		return errors.New("vendor resolution requires a vendor api")
	}
	return nil
}

// engineOptions maps the cli options onto the discovery engine options
func (options *Options) engineOptions() *arp.Options {
	return &arp.Options{
		MaxConnections:    options.MaxConnections,
		MaxHosts:          options.MaxHosts,
		Timeout:           options.Timeout,
		Port:              options.Port,
		FloodInterval:     options.FloodInterval,
		Restrict:          options.Restrict,
		ResolveVendor:     options.ResolveVendor,
		VendorAPI:         options.VendorAPI,
		VendorJSONPath:    options.VendorJSONPath,
		VendorConcurrency: options.VendorConcurrency,
	}
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Debug {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}
