package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rdt-toolkit/sim"
)

var log = &logrus.Logger{
	Out:   os.Stdout,
	Level: logrus.InfoLevel,
	Formatter: &logrus.TextFormatter{
		FullTimestamp: true,
	},
}

var (
	configPath string
	verbose    bool
	messageLen int
	count      int
)

func main() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// RootCmd is the main command for the 'rdtsim' binary.
var RootCmd = &cobra.Command{
	Use:   "rdtsim",
	Short: "rdtsim runs the reliable-data-transfer core against a simulated lossy channel",
	Long:  "rdtsim runs the reliable-data-transfer core against a simulated lossy channel",
	RunE:  runSimulate,
}

func init() {
	RootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a simulation YAML config (defaults built in if omitted)")
	RootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	RootCmd.Flags().IntVarP(&messageLen, "length", "l", 1000, "length in bytes of each generated message")
	RootCmd.Flags().IntVarP(&count, "count", "n", 20, "number of messages to submit")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if verbose {
		log.Level = logrus.DebugLevel
		sim.SetLevel(logrus.DebugLevel)
	}

	cfg := sim.DefaultSimulationConfig()
	if configPath != "" {
		loaded, err := sim.LoadSimulationConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading simulation config: %w", err)
		}
		cfg = loaded
	}

	s := sim.New(cfg)
	s.Start()
	defer s.Stop()

	log.Infof("submitting %d messages of %d bytes each", count, messageLen)
	for i := 0; i < count; i++ {
		if err := s.Submit(randomMessage(messageLen)); err != nil {
			return fmt.Errorf("submitting message %d: %w", i, err)
		}
	}

	// The receiver delivers one message per packet, so completion is
	// measured in bytes rather than in submitted messages.
	total := count * messageLen
	received := 0
	deadline := time.After(30 * time.Second)
	for received < total {
		select {
		case msg := <-s.Delivered():
			received += len(msg)
			log.Debugf("delivered %d/%d bytes", received, total)
		case <-deadline:
			log.Warnf("timed out after delivering %d/%d bytes", received, total)
			return printSummary(s)
		}
	}

	return printSummary(s)
}

func printSummary(s *sim.Simulation) error {
	stats := s.Stats()
	log.Infof("data packets sent: %d", stats.DataPacketsSent())
	log.Infof("acks sent: %d", stats.AcksSent())
	log.Infof("messages delivered: %d", stats.MessagesDelivered())
	log.Infof("bytes delivered: %d", stats.BytesDelivered())
	return nil
}

func randomMessage(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}
