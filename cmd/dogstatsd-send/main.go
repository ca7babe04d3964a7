// Command dogstatsd-send emits a single metric, event or service check to a
// DogStatsD agent.
//
//	dogstatsd-send [flags] count|gauge|histogram|distribution|timing|set <name> <value>
//	dogstatsd-send [flags] event <title>
//	dogstatsd-send [flags] check <name>
package main

import (
	"errors"
	"fmt"
	sender "github.com/itzg/dogstatsd-sender"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	flag "github.com/spf13/pflag"
	"os"
)

var (
	configFile = flag.String("config", "", "YAML config file")
	host       = flag.String("host", sender.DefaultHost, "agent host")
	port       = flag.Int("port", sender.DefaultPort, "agent port")
	socketPath = flag.String("socket", "", "agent Unix datagram socket, takes precedence over host and port")
	prefix     = flag.String("prefix", "", "metric name prefix")
	tags       = flag.String("tags", "", "comma separated tags, e.g. env:prod,role:web")
	sampleRate = flag.Float64("sample-rate", 1, "sample rate between 0 and 1")
	telemetry  = flag.Bool("telemetry", false, "append client telemetry to the datagram")
	attempts   = flag.Int("attempts", sender.DefaultMaxAttemptsToSend, "send attempts on transient socket errors")
	text       = flag.String("text", "", "event text or service check message")
	status     = flag.Int("status", int(sender.OK), "service check status: 0 ok, 1 warning, 2 critical, 3 unknown")
	verbose    = flag.BoolP("verbose", "v", false, "log transport details")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <kind> <name> [value]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	config, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	client, err := sender.NewClient(config)
	if err != nil {
		log.Fatal(err)
	}

	if err := emit(client, flag.Args()); err != nil {
		client.Close()
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	dropped := client.Telemetry().PacketsDropped
	if err := client.Close(); err != nil {
		log.WithError(err).Warn("failed to close client")
	}
	if dropped > 0 {
		log.Errorf("dropped %d packet(s)", dropped)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the environment and finally
// any flags given on the command line.
func loadConfig() (sender.Config, error) {
	config := sender.DefaultConfig()
	if *configFile != "" {
		var err error
		if config, err = sender.LoadConfigFile(*configFile); err != nil {
			return config, err
		}
	}
	config, err := sender.ConfigFromEnv(config)
	if err != nil {
		return config, err
	}

	if flag.CommandLine.Changed("host") {
		config.Host = *host
	}
	if flag.CommandLine.Changed("port") {
		config.Port = *port
	}
	if flag.CommandLine.Changed("socket") {
		config.SocketPath = *socketPath
	}
	if flag.CommandLine.Changed("prefix") {
		config.MetricPrefix = *prefix
	}
	if flag.CommandLine.Changed("telemetry") {
		config.Telemetry = sender.Bool(*telemetry)
	}
	if flag.CommandLine.Changed("attempts") {
		config.MaxAttemptsToSend = *attempts
	}
	config.Logger = log.StandardLogger()
	config.ErrorListener = func(err error) {
		log.WithError(err).Debug("send failed")
	}
	return config, nil
}

func emit(client sender.Client, args []string) error {
	if len(args) < 2 {
		return errors.New("kind and name are required")
	}
	kind, name := args[0], args[1]
	callTags := sender.ParseTags(*tags)

	switch kind {
	case "event":
		client.Event(sender.Event{Title: name, Text: *text, Tags: callTags})
		return nil
	case "check":
		client.ServiceCheck(sender.ServiceCheck{
			Name:    name,
			Status:  sender.ServiceCheckStatus(*status),
			Message: *text,
			Tags:    callTags,
		})
		return nil
	}

	if len(args) < 3 {
		return fmt.Errorf("%s needs a value", kind)
	}
	raw := args[2]
	if kind == "set" {
		client.Set(name, raw, *sampleRate, callTags)
		return nil
	}
	if kind == "count" {
		delta, err := cast.ToInt64E(raw)
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", raw, err)
		}
		client.UpdateStats([]string{name}, delta, *sampleRate, callTags)
		return nil
	}

	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", raw, err)
	}
	switch kind {
	case "gauge":
		client.Gauge(name, value, *sampleRate, callTags)
	case "histogram":
		client.Histogram(name, value, *sampleRate, callTags)
	case "distribution":
		client.Distribution(name, value, *sampleRate, callTags)
	case "timing":
		client.Timing(name, value, *sampleRate, callTags)
	default:
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}
